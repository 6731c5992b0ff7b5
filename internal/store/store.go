// Package store is the persistence gateway for forms and responses. It
// defines the durability contract the editing and collection surfaces
// depend on, with memory, file, and PostgreSQL backed implementations.
package store

import (
	"context"

	"github.com/Samuel-A-Santos/form/model"
)

// Store persists forms and form responses.
//
// Forms are upserted whole: SaveForm stamps CreatedAt and UpdatedAt on
// insert and only UpdatedAt on update, preserving the original CreatedAt.
// Responses are append-only; SaveResponse stamps SubmittedAt at the time of
// the save call, overriding any caller-supplied value. There is no
// update-by-id path for responses.
//
// DeleteForm does not cascade-delete the form's responses. Orphaned
// responses stay listable by form id while their parent form lookup returns
// NOT_FOUND.
type Store interface {
	// ListForms returns all forms. An empty or unreadable backing
	// collection yields an empty slice, never an error.
	ListForms(ctx context.Context) ([]model.Form, error)

	// GetForm retrieves one form by id. Returns a NOT_FOUND envelope if
	// the form does not exist.
	GetForm(ctx context.Context, id string) (model.Form, error)

	// SaveForm upserts a form by id and stamps its timestamps.
	SaveForm(ctx context.Context, form *model.Form) error

	// DeleteForm removes one form by id. Returns NOT_FOUND if absent.
	DeleteForm(ctx context.Context, id string) error

	// ListResponses returns all responses in submission order.
	ListResponses(ctx context.Context) ([]model.FormResponse, error)

	// ListResponsesByForm returns the responses for one form in
	// submission order.
	ListResponsesByForm(ctx context.Context, formID string) ([]model.FormResponse, error)

	// SaveResponse appends a new response and stamps SubmittedAt.
	SaveResponse(ctx context.Context, response *model.FormResponse) error

	// DeleteResponse removes one response by id. Returns NOT_FOUND if
	// absent.
	DeleteResponse(ctx context.Context, id string) error

	// HealthCheck reports whether the backing storage is reachable.
	HealthCheck(ctx context.Context) error
}

// CorruptionReporter is invoked when a backing collection cannot be parsed
// and is degraded to empty. The argument names the collection ("forms" or
// "responses").
type CorruptionReporter func(collection string)
