package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Samuel-A-Santos/form/model"
)

// MemoryStore is an in-memory Store for tests and the memory driver.
type MemoryStore struct {
	mu        sync.RWMutex
	forms     map[string]model.Form
	responses []model.FormResponse
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms: make(map[string]model.Form),
	}
}

// ListForms returns all forms sorted by creation time, oldest first.
func (s *MemoryStore) ListForms(_ context.Context) ([]model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Form, 0, len(s.forms))
	for _, f := range s.forms {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetForm retrieves one form by id.
func (s *MemoryStore) GetForm(_ context.Context, id string) (model.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.forms[id]
	if !exists {
		return model.Form{}, model.NewNotFoundError(
			fmt.Sprintf("form %q not found", id),
		)
	}
	return f, nil
}

// SaveForm upserts a form. Insert stamps CreatedAt and UpdatedAt; update
// stamps only UpdatedAt, keeping the original CreatedAt.
func (s *MemoryStore) SaveForm(_ context.Context, form *model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, exists := s.forms[form.ID]; exists {
		form.CreatedAt = existing.CreatedAt
	} else {
		form.CreatedAt = now
	}
	form.UpdatedAt = now

	s.forms[form.ID] = *form
	return nil
}

// DeleteForm removes a form. Responses to the form are left in place.
func (s *MemoryStore) DeleteForm(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.forms[id]; !exists {
		return model.NewNotFoundError(fmt.Sprintf("form %q not found", id))
	}
	delete(s.forms, id)
	return nil
}

// ListResponses returns all responses in submission order.
func (s *MemoryStore) ListResponses(_ context.Context) ([]model.FormResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.FormResponse, len(s.responses))
	copy(result, s.responses)
	return result, nil
}

// ListResponsesByForm returns the responses for one form in submission order.
func (s *MemoryStore) ListResponsesByForm(_ context.Context, formID string) ([]model.FormResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.FormResponse
	for _, r := range s.responses {
		if r.FormID == formID {
			result = append(result, r)
		}
	}
	return result, nil
}

// SaveResponse appends a response, stamping SubmittedAt to now.
func (s *MemoryStore) SaveResponse(_ context.Context, response *model.FormResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.SubmittedAt = time.Now().UTC()
	s.responses = append(s.responses, *response)
	return nil
}

// DeleteResponse removes one response by id.
func (s *MemoryStore) DeleteResponse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.responses {
		if r.ID == id {
			s.responses = append(s.responses[:i], s.responses[i+1:]...)
			return nil
		}
	}
	return model.NewNotFoundError(fmt.Sprintf("response %q not found", id))
}

// HealthCheck always succeeds; the in-memory store has no dependencies.
func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// Len returns the number of stored forms. For testing.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}
