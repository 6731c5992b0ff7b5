// Package visibility computes the set of currently visible questions for a
// form given the answers entered so far.
//
// The evaluator is a pure function of its two inputs. It recomputes the full
// visible set from scratch on every call rather than diffing incrementally;
// question counts are small, and a full pass stays correct under chained and
// diamond dependencies without any topological ordering.
package visibility

import (
	"strconv"
	"strings"

	"github.com/Samuel-A-Santos/form/model"
)

// Visible returns the set of question ids currently shown, keyed by id.
//
// A question with no conditional logic is always visible. A question whose
// controlling answer is absent or empty is visible too: until the
// controlling question is answered, dependents default to shown. This
// fail-open policy is deliberate; it favors showing too much over hiding
// required fields the user has not reached yet. The same applies when
// DependsOn names a question that no longer exists.
func Visible(questions []model.Question, answers map[string]model.AnswerValue) map[string]bool {
	visible := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ConditionalLogic == nil {
			visible[q.ID] = true
			continue
		}

		dep, ok := answers[q.ConditionalLogic.DependsOn]
		if !ok || dep.IsEmpty() {
			visible[q.ID] = true
			continue
		}

		if conditionMet(*q.ConditionalLogic, dep.Comparison()) {
			visible[q.ID] = true
		}
	}
	return visible
}

// conditionMet evaluates one visibility rule against the reduced comparison
// value. Sequences have already been reduced to their first element.
func conditionMet(logic model.ConditionalLogic, answer string) bool {
	switch logic.Condition {
	case model.ConditionEquals:
		return answer == logic.Value
	case model.ConditionNotEquals:
		return answer != logic.Value
	case model.ConditionContains:
		return strings.Contains(answer, logic.Value)
	case model.ConditionGreaterThan:
		a, b, ok := parsePair(answer, logic.Value)
		return ok && a > b
	case model.ConditionLessThan:
		a, b, ok := parsePair(answer, logic.Value)
		return ok && a < b
	}
	return false
}

// parsePair parses both sides of a numeric comparison. A non-numeric side
// makes the comparison unsatisfiable: the question stays hidden, never an
// error.
func parsePair(answer, value string) (float64, float64, bool) {
	a, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
