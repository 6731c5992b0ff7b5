package model

import (
	"encoding/json"
	"testing"
)

func TestAnswerValue_variants(t *testing.T) {
	s := Scalar("hello")
	if s.IsMulti() {
		t.Error("scalar should not be multi")
	}
	if s.String() != "hello" {
		t.Errorf("String() = %q", s.String())
	}
	if s.Values() != nil {
		t.Errorf("Values() = %v, want nil for scalar", s.Values())
	}

	m := Multi("a", "b")
	if !m.IsMulti() {
		t.Error("multi should be multi")
	}
	if m.String() != "" {
		t.Errorf("String() = %q, want empty for multi", m.String())
	}
	if got := m.Values(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Values() = %v", got)
	}
}

func TestAnswerValue_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  bool
	}{
		{"zero value", AnswerValue{}, true},
		{"empty scalar", Scalar(""), true},
		{"scalar", Scalar("x"), false},
		{"empty multi", Multi(), true},
		{"multi", Multi("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnswerValue_Comparison(t *testing.T) {
	if got := Scalar("yes").Comparison(); got != "yes" {
		t.Errorf("Comparison() = %q, want yes", got)
	}
	if got := Multi("red", "blue").Comparison(); got != "red" {
		t.Errorf("Comparison() = %q, want first element", got)
	}
	if got := Multi().Comparison(); got != "" {
		t.Errorf("Comparison() = %q, want empty for empty sequence", got)
	}
}

func TestAnswerValue_Join(t *testing.T) {
	if got := Multi("red", "blue").Join(", "); got != "red, blue" {
		t.Errorf("Join() = %q", got)
	}
	if got := Scalar("solo").Join(", "); got != "solo" {
		t.Errorf("Join() = %q", got)
	}
}

func TestAnswerValue_JSON(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		json  string
	}{
		{"scalar", Scalar("hello"), `"hello"`},
		{"empty scalar", Scalar(""), `""`},
		{"multi", Multi("a", "b"), `["a","b"]`},
		{"empty multi", Multi(), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("marshal = %s, want %s", data, tt.json)
			}

			var back AnswerValue
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back.IsMulti() != tt.value.IsMulti() {
				t.Errorf("variant changed across round trip")
			}
			if back.Join("|") != tt.value.Join("|") {
				t.Errorf("content changed across round trip: %q vs %q",
					back.Join("|"), tt.value.Join("|"))
			}
		})
	}
}

func TestAnswerValue_UnmarshalRejectsOtherTypes(t *testing.T) {
	var v AnswerValue
	if err := json.Unmarshal([]byte(`42`), &v); err == nil {
		t.Error("numbers should be rejected")
	}
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("objects should be rejected")
	}
}

func TestQuestionType_Valid(t *testing.T) {
	for _, qt := range []QuestionType{
		QuestionFreeText, QuestionLongText, QuestionInteger, QuestionDecimal,
		QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo,
	} {
		if !qt.Valid() {
			t.Errorf("%s should be valid", qt)
		}
	}
	if QuestionType("date").Valid() {
		t.Error("unknown type should be invalid")
	}
}

func TestQuestionType_HasOptions(t *testing.T) {
	withOptions := []QuestionType{QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo}
	for _, qt := range withOptions {
		if !qt.HasOptions() {
			t.Errorf("%s should carry options", qt)
		}
	}
	if QuestionFreeText.HasOptions() || QuestionInteger.HasOptions() {
		t.Error("text and numeric types should not carry options")
	}
}

func TestConditionType_Valid(t *testing.T) {
	for _, ct := range []ConditionType{
		ConditionEquals, ConditionNotEquals, ConditionContains,
		ConditionGreaterThan, ConditionLessThan,
	} {
		if !ct.Valid() {
			t.Errorf("%s should be valid", ct)
		}
	}
	if ConditionType("matches").Valid() {
		t.Error("unknown condition should be invalid")
	}
}
