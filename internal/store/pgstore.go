package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuel-A-Santos/form/model"
)

// PgStore is a PostgreSQL-backed Store using pgx/v5. Form and response
// bodies are stored as JSONB payloads keyed by id, with the timestamp
// columns owned by the store so the stamping rules hold regardless of what
// the caller sends.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PostgreSQL store on the given pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureSchema creates the forms and responses tables if they do not exist.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS forms (
			id         TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS responses (
			id           TEXT PRIMARY KEY,
			form_id      TEXT NOT NULL,
			payload      JSONB NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS responses_form_id_idx ON responses (form_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// HealthCheck pings the database.
func (s *PgStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ListForms returns all forms ordered by creation time.
func (s *PgStore) ListForms(ctx context.Context) ([]model.Form, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload, created_at, updated_at
		FROM forms
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	result := make([]model.Form, 0)
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetForm retrieves one form by id.
func (s *PgStore) GetForm(ctx context.Context, id string) (model.Form, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT payload, created_at, updated_at
		FROM forms
		WHERE id = $1`, id)

	f, err := scanForm(row)
	if err == pgx.ErrNoRows {
		return model.Form{}, model.NewNotFoundError(fmt.Sprintf("form %q not found", id))
	}
	if err != nil {
		return model.Form{}, err
	}
	return f, nil
}

// SaveForm upserts a form. The created_at column is written only on insert;
// the upsert leaves it untouched on conflict so CreatedAt stays stable.
func (s *PgStore) SaveForm(ctx context.Context, form *model.Form) error {
	now := time.Now().UTC()
	form.UpdatedAt = now
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}

	var createdAt time.Time
	err = s.pool.QueryRow(ctx, `
		INSERT INTO forms (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`,
		form.ID, payload, now, now,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("upsert form: %w", err)
	}

	form.CreatedAt = createdAt.UTC()
	return nil
}

// DeleteForm removes a form. Responses to the form are left in place.
func (s *PgStore) DeleteForm(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError(fmt.Sprintf("form %q not found", id))
	}
	return nil
}

// ListResponses returns all responses in submission order.
func (s *PgStore) ListResponses(ctx context.Context) ([]model.FormResponse, error) {
	return s.queryResponses(ctx, `
		SELECT payload, submitted_at
		FROM responses
		ORDER BY submitted_at, id`)
}

// ListResponsesByForm returns the responses for one form in submission order.
func (s *PgStore) ListResponsesByForm(ctx context.Context, formID string) ([]model.FormResponse, error) {
	return s.queryResponses(ctx, `
		SELECT payload, submitted_at
		FROM responses
		WHERE form_id = $1
		ORDER BY submitted_at, id`, formID)
}

// SaveResponse appends a response, stamping SubmittedAt to now. Responses
// are insert-only; a duplicate id is a conflict, never an overwrite.
func (s *PgStore) SaveResponse(ctx context.Context, response *model.FormResponse) error {
	response.SubmittedAt = time.Now().UTC()

	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO responses (id, form_id, payload, submitted_at)
		VALUES ($1, $2, $3, $4)`,
		response.ID, response.FormID, payload, response.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// DeleteResponse removes one response by id.
func (s *PgStore) DeleteResponse(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM responses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError(fmt.Sprintf("response %q not found", id))
	}
	return nil
}

func (s *PgStore) queryResponses(ctx context.Context, sql string, args ...any) ([]model.FormResponse, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	result := make([]model.FormResponse, 0)
	for rows.Next() {
		var payload []byte
		var submittedAt time.Time
		if err := rows.Scan(&payload, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		var r model.FormResponse
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		r.SubmittedAt = submittedAt.UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

func scanForm(row pgx.Row) (model.Form, error) {
	var payload []byte
	var createdAt, updatedAt time.Time
	if err := row.Scan(&payload, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return model.Form{}, err
		}
		return model.Form{}, fmt.Errorf("scan form: %w", err)
	}

	var f model.Form
	if err := json.Unmarshal(payload, &f); err != nil {
		return model.Form{}, fmt.Errorf("unmarshal form: %w", err)
	}
	f.CreatedAt = createdAt.UTC()
	f.UpdatedAt = updatedAt.UTC()
	return f, nil
}
