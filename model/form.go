// Package model holds the form, question, and response data model shared by
// all components, plus the error envelope used across package boundaries.
package model

import "time"

// QuestionType identifies how a question is answered and rendered.
type QuestionType string

// The closed set of question types. Any other string is not a recognized
// variant.
const (
	QuestionFreeText       QuestionType = "free_text"
	QuestionLongText       QuestionType = "long_text"
	QuestionInteger        QuestionType = "integer"
	QuestionDecimal        QuestionType = "decimal"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionYesNo          QuestionType = "yes_no"
)

// Valid reports whether t is one of the recognized question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionFreeText, QuestionLongText, QuestionInteger, QuestionDecimal,
		QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo:
		return true
	}
	return false
}

// ConditionType identifies the comparison applied by a visibility rule.
type ConditionType string

// The closed set of visibility conditions.
const (
	ConditionEquals      ConditionType = "equals"
	ConditionNotEquals   ConditionType = "not_equals"
	ConditionContains    ConditionType = "contains"
	ConditionGreaterThan ConditionType = "greater_than"
	ConditionLessThan    ConditionType = "less_than"
)

// Valid reports whether c is one of the recognized condition types.
func (c ConditionType) Valid() bool {
	switch c {
	case ConditionEquals, ConditionNotEquals, ConditionContains,
		ConditionGreaterThan, ConditionLessThan:
		return true
	}
	return false
}

// Form is a named collection of ordered questions plus metadata.
type Form struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Question is one prompt with a type, optional options, and an optional
// visibility rule. Order is the dense zero-based rank of the question within
// its form and must stay consistent with its actual position.
type Question struct {
	ID                  string            `json:"id"`
	Text                string            `json:"text"`
	Code                string            `json:"code,omitempty"`
	ResponseOrientation string            `json:"response_orientation,omitempty"`
	Type                QuestionType      `json:"type"`
	Required            bool              `json:"required"`
	IsSubQuestion       bool              `json:"is_sub_question,omitempty"`
	Options             []Option          `json:"options,omitempty"`
	ConditionalLogic    *ConditionalLogic `json:"conditional_logic,omitempty"`
	Order               int               `json:"order"`
}

// Option is one selectable choice belonging to a choice-type question.
// Value is the comparison/storage token; answers store Value, not Text.
type Option struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Value        string `json:"value"`
	Order        int    `json:"order"`
	IsOpenAnswer bool   `json:"is_open_answer"`
}

// ConditionalLogic makes a question's visibility depend on another
// question's answer. DependsOn names a question in the same form and must
// not be the owning question's own id.
type ConditionalLogic struct {
	DependsOn string        `json:"depends_on"`
	Condition ConditionType `json:"condition"`
	Value     string        `json:"value"`
}
