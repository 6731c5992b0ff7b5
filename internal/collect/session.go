package collect

import (
	"github.com/Samuel-A-Santos/form/internal/visibility"
	"github.com/Samuel-A-Santos/form/model"
)

// Session tracks a single respondent filling out a form. Every answer
// change recomputes question visibility from scratch, so toggling a
// controlling answer back and forth always lands in the same state.
type Session struct {
	form    model.Form
	answers map[string]model.AnswerValue
	visible map[string]bool
}

func NewSession(form model.Form) *Session {
	s := &Session{
		form:    form,
		answers: make(map[string]model.AnswerValue),
	}
	s.recompute()
	return s
}

// SetAnswer records the answer for a question and refreshes visibility.
func (s *Session) SetAnswer(questionID string, v model.AnswerValue) {
	if v.IsEmpty() {
		delete(s.answers, questionID)
	} else {
		s.answers[questionID] = v
	}
	s.recompute()
}

func (s *Session) ClearAnswer(questionID string) {
	delete(s.answers, questionID)
	s.recompute()
}

func (s *Session) Answer(questionID string) (model.AnswerValue, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

// Answers returns a copy of the current answer set.
func (s *Session) Answers() map[string]model.AnswerValue {
	out := make(map[string]model.AnswerValue, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *Session) IsVisible(questionID string) bool {
	return s.visible[questionID]
}

// VisibleQuestions returns the form's questions that are currently
// visible, in form order.
func (s *Session) VisibleQuestions() []model.Question {
	out := make([]model.Question, 0, len(s.form.Questions))
	for _, q := range s.form.Questions {
		if s.visible[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func (s *Session) recompute() {
	s.visible = visibility.Visible(s.form.Questions, s.answers)
}
