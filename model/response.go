package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AnswerValue is a tagged variant holding either a single string or a
// sequence of strings. The sequence form is produced only by
// multiple-choice style questions. The zero value is an empty scalar.
type AnswerValue struct {
	scalar string
	multi  []string
	many   bool
}

// Scalar returns an AnswerValue holding a single string.
func Scalar(v string) AnswerValue {
	return AnswerValue{scalar: v}
}

// Multi returns an AnswerValue holding a sequence of strings.
func Multi(vs ...string) AnswerValue {
	return AnswerValue{multi: vs, many: true}
}

// IsMulti reports whether the value is the sequence variant.
func (v AnswerValue) IsMulti() bool { return v.many }

// IsEmpty reports whether the value is an empty scalar or an empty sequence.
func (v AnswerValue) IsEmpty() bool {
	if v.many {
		return len(v.multi) == 0
	}
	return v.scalar == ""
}

// String returns the scalar value, or "" for the sequence variant.
func (v AnswerValue) String() string {
	if v.many {
		return ""
	}
	return v.scalar
}

// Values returns the sequence, or nil for the scalar variant.
func (v AnswerValue) Values() []string {
	if !v.many {
		return nil
	}
	out := make([]string, len(v.multi))
	copy(out, v.multi)
	return out
}

// Comparison returns the single value used for condition evaluation: the
// first element of a sequence, or the scalar as-is.
func (v AnswerValue) Comparison() string {
	if v.many {
		if len(v.multi) == 0 {
			return ""
		}
		return v.multi[0]
	}
	return v.scalar
}

// Join renders the value for display or export: sequence elements joined
// with sep, or the scalar unchanged.
func (v AnswerValue) Join(sep string) string {
	if v.many {
		return strings.Join(v.multi, sep)
	}
	return v.scalar
}

// MarshalJSON encodes the scalar variant as a JSON string and the sequence
// variant as a JSON array.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.many {
		if v.multi == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.multi)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON decodes either a JSON string or a JSON array of strings.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Scalar(s)
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err == nil {
		*v = Multi(vs...)
		return nil
	}
	return fmt.Errorf("answer value must be a string or an array of strings")
}

// Answer pairs a question id with the value entered for it. QuestionID may
// reference a question that no longer exists in the form; stale references
// are tolerated and render as blank.
type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      AnswerValue `json:"value"`
}

// FormResponse is one completed submission. It is created once at
// submission time and is immutable afterwards except for whole-record
// deletion. SubmittedAt is stamped by the persistence gateway, not the
// caller.
type FormResponse struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form_id"`
	Answers     []Answer  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}
