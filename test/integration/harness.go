// Package integration provides a reusable test harness for end-to-end
// integration testing of the form builder server. It starts a full HTTP
// server over a real store implementation with the complete middleware
// chain.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Samuel-A-Santos/form/internal/builder"
	"github.com/Samuel-A-Santos/form/internal/collect"
	"github.com/Samuel-A-Santos/form/internal/config"
	"github.com/Samuel-A-Santos/form/internal/observability"
	"github.com/Samuel-A-Santos/form/internal/store"
	"github.com/Samuel-A-Santos/form/internal/transport"
	"github.com/Samuel-A-Santos/form/model"
)

// TestHarness encapsulates a fully wired form builder instance for
// integration testing.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server

	// Internal components exposed for advanced test scenarios.
	Store     store.Store
	Editor    *builder.Editor
	Collector *collect.Collector

	cfg *config.Config
}

// HarnessOption configures the test harness.
type HarnessOption func(*harnessConfig)

type harnessConfig struct {
	store          store.Store
	handlerTimeout time.Duration
}

// WithStore runs the harness against a caller-supplied store instead of a
// fresh in-memory one. Useful for file-store persistence scenarios.
func WithStore(s store.Store) HarnessOption {
	return func(c *harnessConfig) {
		c.store = s
	}
}

// WithHandlerTimeout sets the per-request handler timeout.
func WithHandlerTimeout(d time.Duration) HarnessOption {
	return func(c *harnessConfig) {
		c.handlerTimeout = d
	}
}

// NewTestHarness creates and starts a full server instance. The server is
// automatically cleaned up when the test completes.
func NewTestHarness(t *testing.T, opts ...HarnessOption) *TestHarness {
	t.Helper()

	hc := &harnessConfig{
		handlerTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(hc)
	}

	h := &TestHarness{t: t}

	if hc.store != nil {
		h.Store = hc.store
	} else {
		h.Store = store.NewMemoryStore()
	}

	logger := zap.NewNop()
	h.Editor = builder.NewEditor(h.Store, logger)
	h.Collector = collect.NewCollector(h.Store, logger)

	h.cfg = config.Defaults()
	h.cfg.Server.HandlerTimeout = hc.handlerTimeout
	h.cfg.Server.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	router := transport.NewRouter(transport.Dependencies{
		Config:    h.cfg,
		Logger:    logger,
		Editor:    h.Editor,
		Collector: h.Collector,
		Readiness: observability.ReadinessChecks{Store: h.Store},
	})

	h.server = httptest.NewServer(router)
	t.Cleanup(func() {
		h.server.Close()
	})

	return h
}

// BaseURL returns the test server's base URL.
func (h *TestHarness) BaseURL() string {
	return h.server.URL
}

// --- HTTP client helpers ---

// GET performs a GET request.
func (h *TestHarness) GET(path string) *http.Response {
	h.t.Helper()
	return h.doRequest("GET", path, nil)
}

// POST performs a POST request with a JSON body.
func (h *TestHarness) POST(path string, body any) *http.Response {
	h.t.Helper()
	return h.doRequest("POST", path, body)
}

// PUT performs a PUT request with a JSON body.
func (h *TestHarness) PUT(path string, body any) *http.Response {
	h.t.Helper()
	return h.doRequest("PUT", path, body)
}

// DELETE performs a DELETE request.
func (h *TestHarness) DELETE(path string) *http.Response {
	h.t.Helper()
	return h.doRequest("DELETE", path, nil)
}

func (h *TestHarness) doRequest(method, path string, body any) *http.Response {
	h.t.Helper()

	url := h.server.URL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal request body: %v", err)
		}
		bodyReader = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		h.t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// ParseJSON reads the response body and unmarshals it into the target.
func (h *TestHarness) ParseJSON(resp *http.Response, target any) {
	h.t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		h.t.Fatalf("unmarshal response body: %v\nbody: %s", err, string(data))
	}
}

// ReadBody reads and returns the response body as bytes.
func (h *TestHarness) ReadBody(resp *http.Response) []byte {
	h.t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read response body: %v", err)
	}
	return data
}

// AssertStatus checks that the response has the expected status code.
func (h *TestHarness) AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Errorf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
}

// AssertJSON checks that the response has the expected status and parses
// the body.
func (h *TestHarness) AssertJSON(t *testing.T, resp *http.Response, expected int, target any) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
	h.ParseJSON(resp, target)
}

// --- Fixtures ---

// CreateForm creates a form through the API and returns it.
func (h *TestHarness) CreateForm(t *testing.T, title, description string) model.Form {
	t.Helper()
	resp := h.POST("/api/forms", map[string]string{
		"title":       title,
		"description": description,
	})
	var form model.Form
	h.AssertJSON(t, resp, http.StatusCreated, &form)
	return form
}

// AddQuestion adds a question to a form through the API and returns it.
func (h *TestHarness) AddQuestion(t *testing.T, formID string, q model.Question) model.Question {
	t.Helper()
	resp := h.POST("/api/forms/"+formID+"/questions", q)
	var out model.Question
	h.AssertJSON(t, resp, http.StatusCreated, &out)
	return out
}

// SubmitResponse submits answers for a form through the API and returns
// the stored response.
func (h *TestHarness) SubmitResponse(t *testing.T, formID string, answers map[string]model.AnswerValue) model.FormResponse {
	t.Helper()
	resp := h.POST("/api/forms/"+formID+"/responses", map[string]any{"answers": answers})
	var out model.FormResponse
	h.AssertJSON(t, resp, http.StatusCreated, &out)
	return out
}

// YesNoOptions returns the standard option pair for yes/no questions.
func YesNoOptions() []model.Option {
	return []model.Option{
		{Text: "Yes", Value: "yes"},
		{Text: "No", Value: "no"},
	}
}

// FormatJSON converts a value to indented JSON for test output.
func FormatJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
