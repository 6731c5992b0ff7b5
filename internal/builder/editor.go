// Package builder is the form editing surface: a service over the
// persistence gateway that produces well-formed form/question/option graphs
// and keeps question order dense after every mutation.
package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Samuel-A-Santos/form/internal/store"
	"github.com/Samuel-A-Santos/form/model"
)

// Move directions accepted by MoveQuestion.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// Editor mutates forms through the persistence gateway. Every edit is
// written back immediately; there is no separate draft state.
type Editor struct {
	store  store.Store
	logger *zap.Logger
}

// NewEditor creates an Editor on the given store.
func NewEditor(s store.Store, logger *zap.Logger) *Editor {
	return &Editor{store: s, logger: logger}
}

// ListForms returns all forms.
func (e *Editor) ListForms(ctx context.Context) ([]model.Form, error) {
	return e.store.ListForms(ctx)
}

// GetForm retrieves one form by id.
func (e *Editor) GetForm(ctx context.Context, id string) (model.Form, error) {
	return e.store.GetForm(ctx, id)
}

// CreateForm creates and persists an empty form.
func (e *Editor) CreateForm(ctx context.Context, title, description string) (model.Form, error) {
	form := model.Form{
		ID:          newFormID(),
		Title:       title,
		Description: description,
		Questions:   []model.Question{},
	}
	if err := e.store.SaveForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	e.logger.Info("form created", zap.String("form_id", form.ID))
	return form, nil
}

// UpdateDetails changes a form's title and description.
func (e *Editor) UpdateDetails(ctx context.Context, id, title, description string) (model.Form, error) {
	form, err := e.store.GetForm(ctx, id)
	if err != nil {
		return model.Form{}, err
	}

	form.Title = title
	form.Description = description
	if err := e.store.SaveForm(ctx, &form); err != nil {
		return model.Form{}, err
	}
	return form, nil
}

// DeleteForm removes a form. Its responses are intentionally left in place
// and stay listable by form id.
func (e *Editor) DeleteForm(ctx context.Context, id string) error {
	if err := e.store.DeleteForm(ctx, id); err != nil {
		return err
	}
	e.logger.Info("form deleted", zap.String("form_id", id))
	return nil
}

// AddQuestion validates and appends a question at the end of the form,
// assigning its id, option ids, and order.
func (e *Editor) AddQuestion(ctx context.Context, formID string, q model.Question) (model.Question, error) {
	form, err := e.store.GetForm(ctx, formID)
	if err != nil {
		return model.Question{}, err
	}

	q.ID = newQuestionID()
	q.Order = len(form.Questions)
	assignOptionIDs(&q)

	if details := validateQuestion(q); len(details) > 0 {
		return model.Question{}, model.NewValidationError(details)
	}

	form.Questions = append(form.Questions, q)
	if err := e.store.SaveForm(ctx, &form); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// UpdateQuestion validates and replaces a question in place, keeping its
// id and order.
func (e *Editor) UpdateQuestion(ctx context.Context, formID, questionID string, q model.Question) (model.Question, error) {
	form, err := e.store.GetForm(ctx, formID)
	if err != nil {
		return model.Question{}, err
	}

	idx := questionIndex(form, questionID)
	if idx < 0 {
		return model.Question{}, model.NewNotFoundError(
			fmt.Sprintf("question %q not found in form %q", questionID, formID),
		)
	}

	q.ID = questionID
	q.Order = form.Questions[idx].Order
	assignOptionIDs(&q)

	if details := validateQuestion(q); len(details) > 0 {
		return model.Question{}, model.NewValidationError(details)
	}

	form.Questions[idx] = q
	if err := e.store.SaveForm(ctx, &form); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// DeleteQuestion removes a question and renormalizes the remaining orders
// to a dense zero-based sequence.
func (e *Editor) DeleteQuestion(ctx context.Context, formID, questionID string) error {
	form, err := e.store.GetForm(ctx, formID)
	if err != nil {
		return err
	}

	idx := questionIndex(form, questionID)
	if idx < 0 {
		return model.NewNotFoundError(
			fmt.Sprintf("question %q not found in form %q", questionID, formID),
		)
	}

	form.Questions = append(form.Questions[:idx], form.Questions[idx+1:]...)
	renumber(form.Questions)
	return e.store.SaveForm(ctx, &form)
}

// MoveQuestion swaps a question with its neighbor in the given direction
// and renormalizes orders. Moving past either end is a no-op.
func (e *Editor) MoveQuestion(ctx context.Context, formID, questionID, direction string) error {
	if direction != MoveUp && direction != MoveDown {
		return model.NewBadRequestError(fmt.Sprintf("unknown move direction %q", direction))
	}

	form, err := e.store.GetForm(ctx, formID)
	if err != nil {
		return err
	}

	idx := questionIndex(form, questionID)
	if idx < 0 {
		return model.NewNotFoundError(
			fmt.Sprintf("question %q not found in form %q", questionID, formID),
		)
	}

	qs := form.Questions
	switch {
	case direction == MoveUp && idx > 0:
		qs[idx], qs[idx-1] = qs[idx-1], qs[idx]
	case direction == MoveDown && idx < len(qs)-1:
		qs[idx], qs[idx+1] = qs[idx+1], qs[idx]
	default:
		return nil
	}

	renumber(qs)
	return e.store.SaveForm(ctx, &form)
}

// renumber rewrites Order to match slice position.
func renumber(questions []model.Question) {
	for i := range questions {
		questions[i].Order = i
	}
}

func questionIndex(form model.Form, questionID string) int {
	for i, q := range form.Questions {
		if q.ID == questionID {
			return i
		}
	}
	return -1
}

// assignOptionIDs fills in missing option ids and renumbers option order.
func assignOptionIDs(q *model.Question) {
	for i := range q.Options {
		if q.Options[i].ID == "" {
			q.Options[i].ID = newOptionID()
		}
		q.Options[i].Order = i
	}
}

// validateQuestion checks a question against the model invariants. The
// returned details are empty when the question is well formed.
func validateQuestion(q model.Question) []model.FieldError {
	var details []model.FieldError

	if q.Text == "" {
		details = append(details, model.FieldError{
			Field: "text", Code: "required", Message: "question text is required",
		})
	}
	if !q.Type.Valid() {
		details = append(details, model.FieldError{
			Field: "type", Code: "unknown",
			Message: fmt.Sprintf("unknown question type %q", q.Type),
		})
	}
	if q.Type.HasOptions() && len(q.Options) == 0 {
		details = append(details, model.FieldError{
			Field: "options", Code: "required",
			Message: fmt.Sprintf("%s questions require at least one option", q.Type),
		})
	}

	// Option values must be unambiguous within the question.
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt.Value] {
			details = append(details, model.FieldError{
				Field: "options", Code: "duplicate",
				Message: fmt.Sprintf("duplicate option value %q", opt.Value),
			})
		}
		seen[opt.Value] = true
	}

	if logic := q.ConditionalLogic; logic != nil {
		if logic.DependsOn == q.ID {
			details = append(details, model.FieldError{
				Field: "conditional_logic.depends_on", Code: "self_reference",
				Message: "a question cannot depend on its own answer",
			})
		}
		if !logic.Condition.Valid() {
			details = append(details, model.FieldError{
				Field: "conditional_logic.condition", Code: "unknown",
				Message: fmt.Sprintf("unknown condition %q", logic.Condition),
			})
		}
	}

	return details
}

func newFormID() string     { return "form_" + uuid.NewString() }
func newQuestionID() string { return "question_" + uuid.NewString() }
func newOptionID() string   { return "option_" + uuid.NewString() }
