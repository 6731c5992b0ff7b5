package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Samuel-A-Santos/form/model"
)

// Collection file names inside the store directory.
const (
	formsFile     = "forms.json"
	responsesFile = "responses.json"
)

// FileStore is a Store backed by two JSON collection files in a directory,
// one for forms and one for responses. Every mutation reads the whole
// collection, applies the change, and writes the whole collection back.
// That is safe only under a single-writer assumption; concurrent processes
// are not coordinated and last write wins at collection granularity.
//
// A collection file that cannot be parsed is treated as empty rather than
// failing the caller. The corruption is logged and reported through the
// optional CorruptionReporter so it still reaches an observability channel.
type FileStore struct {
	mu      sync.Mutex
	dir     string
	logger  *zap.Logger
	corrupt CorruptionReporter
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithCorruptionReporter registers a callback invoked whenever a collection
// file is degraded to empty because it could not be parsed.
func WithCorruptionReporter(r CorruptionReporter) FileStoreOption {
	return func(s *FileStore) { s.corrupt = r }
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, logger *zap.Logger, opts ...FileStoreOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create directory %s: %w", dir, err)
	}
	s := &FileStore{dir: dir, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HealthCheck verifies the store directory is writable.
func (s *FileStore) HealthCheck(_ context.Context) error {
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("store directory not writable: %w", err)
	}
	return os.Remove(probe)
}

// ListForms returns all stored forms in collection order.
func (s *FileStore) ListForms(_ context.Context) ([]model.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadForms(), nil
}

// GetForm retrieves one form by id.
func (s *FileStore) GetForm(_ context.Context, id string) (model.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.loadForms() {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Form{}, model.NewNotFoundError(fmt.Sprintf("form %q not found", id))
}

// SaveForm upserts a form. Insert stamps CreatedAt and UpdatedAt; update
// stamps only UpdatedAt, keeping the original CreatedAt.
func (s *FileStore) SaveForm(_ context.Context, form *model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forms := s.loadForms()
	now := time.Now().UTC()

	replaced := false
	for i, f := range forms {
		if f.ID == form.ID {
			form.CreatedAt = f.CreatedAt
			form.UpdatedAt = now
			forms[i] = *form
			replaced = true
			break
		}
	}
	if !replaced {
		form.CreatedAt = now
		form.UpdatedAt = now
		forms = append(forms, *form)
	}

	return s.writeCollection(formsFile, forms)
}

// DeleteForm removes a form. Responses to the form are left in place.
func (s *FileStore) DeleteForm(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forms := s.loadForms()
	kept := forms[:0]
	for _, f := range forms {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(forms) {
		return model.NewNotFoundError(fmt.Sprintf("form %q not found", id))
	}
	return s.writeCollection(formsFile, kept)
}

// ListResponses returns all responses in submission order.
func (s *FileStore) ListResponses(_ context.Context) ([]model.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadResponses(), nil
}

// ListResponsesByForm returns the responses for one form in submission order.
func (s *FileStore) ListResponsesByForm(_ context.Context, formID string) ([]model.FormResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.FormResponse
	for _, r := range s.loadResponses() {
		if r.FormID == formID {
			result = append(result, r)
		}
	}
	return result, nil
}

// SaveResponse appends a response, stamping SubmittedAt to now.
func (s *FileStore) SaveResponse(_ context.Context, response *model.FormResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	responses := s.loadResponses()
	response.SubmittedAt = time.Now().UTC()
	responses = append(responses, *response)
	return s.writeCollection(responsesFile, responses)
}

// DeleteResponse removes one response by id.
func (s *FileStore) DeleteResponse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	responses := s.loadResponses()
	kept := responses[:0]
	for _, r := range responses {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(responses) {
		return model.NewNotFoundError(fmt.Sprintf("response %q not found", id))
	}
	return s.writeCollection(responsesFile, kept)
}

// loadForms reads the forms collection. Missing or malformed files yield an
// empty collection.
func (s *FileStore) loadForms() []model.Form {
	var forms []model.Form
	s.loadCollection(formsFile, &forms)
	return forms
}

// loadResponses reads the responses collection. Missing or malformed files
// yield an empty collection.
func (s *FileStore) loadResponses() []model.FormResponse {
	var responses []model.FormResponse
	s.loadCollection(responsesFile, &responses)
	return responses
}

func (s *FileStore) loadCollection(name string, out any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		s.reportCorruption(name, err)
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.reportCorruption(name, err)
	}
}

func (s *FileStore) reportCorruption(name string, err error) {
	collection := "forms"
	if name == responsesFile {
		collection = "responses"
	}
	s.logger.Warn("collection unreadable, treating as empty",
		zap.String("collection", collection),
		zap.Error(err),
	)
	if s.corrupt != nil {
		s.corrupt(collection)
	}
}

// writeCollection serializes the whole collection and replaces the file
// atomically via a temp file and rename.
func (s *FileStore) writeCollection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file store: replace %s: %w", name, err)
	}
	return nil
}
