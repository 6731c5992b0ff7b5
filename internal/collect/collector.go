package collect

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Samuel-A-Santos/form/internal/store"
	"github.com/Samuel-A-Santos/form/internal/visibility"
	"github.com/Samuel-A-Santos/form/model"
)

// Collector accepts filled-out forms and stores them as immutable
// responses. Validation only applies to questions that are visible
// given the submitted answers; answers to hidden questions are kept
// as provided so nothing the respondent typed is silently dropped.
type Collector struct {
	store  store.Store
	logger *zap.Logger
}

func NewCollector(s store.Store, logger *zap.Logger) *Collector {
	return &Collector{store: s, logger: logger}
}

// Submit validates answers against the form and appends a new response.
// Required questions are only enforced when visible. The returned
// response carries the server-assigned id and submission timestamp.
func (c *Collector) Submit(ctx context.Context, formID string, answers map[string]model.AnswerValue) (model.FormResponse, error) {
	form, err := c.store.GetForm(ctx, formID)
	if err != nil {
		return model.FormResponse{}, err
	}

	visible := visibility.Visible(form.Questions, answers)

	var details []model.FieldError
	for _, q := range form.Questions {
		if !q.Required || !visible[q.ID] {
			continue
		}
		if answers[q.ID].IsEmpty() {
			details = append(details, model.FieldError{
				Field:   q.ID,
				Code:    "required",
				Message: "answer is required",
			})
		}
	}
	if len(details) > 0 {
		return model.FormResponse{}, model.NewValidationError(details)
	}

	resp := model.FormResponse{
		ID:      "response_" + uuid.NewString(),
		FormID:  form.ID,
		Answers: orderedAnswers(form, answers),
	}
	if err := c.store.SaveResponse(ctx, &resp); err != nil {
		return model.FormResponse{}, err
	}

	c.logger.Info("response submitted",
		zap.String("form_id", form.ID),
		zap.String("response_id", resp.ID),
		zap.Int("answers", len(resp.Answers)))
	return resp, nil
}

func (c *Collector) ListResponses(ctx context.Context, formID string) ([]model.FormResponse, error) {
	if _, err := c.store.GetForm(ctx, formID); err != nil {
		return nil, err
	}
	return c.store.ListResponsesByForm(ctx, formID)
}

func (c *Collector) DeleteResponse(ctx context.Context, id string) error {
	if err := c.store.DeleteResponse(ctx, id); err != nil {
		return err
	}
	c.logger.Info("response deleted", zap.String("response_id", id))
	return nil
}

// orderedAnswers lays answers out in question order so stored responses
// and exports are stable regardless of map iteration. Answers keyed by
// an id the form no longer has are dropped.
func orderedAnswers(form model.Form, answers map[string]model.AnswerValue) []model.Answer {
	out := make([]model.Answer, 0, len(answers))
	for _, q := range form.Questions {
		v, ok := answers[q.ID]
		if !ok || v.IsEmpty() {
			continue
		}
		out = append(out, model.Answer{QuestionID: q.ID, Value: v})
	}
	return out
}
