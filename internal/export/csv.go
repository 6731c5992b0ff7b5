// Package export renders collected responses into downloadable formats.
package export

import (
	"strings"

	"github.com/Samuel-A-Santos/form/model"
)

// timestampLayout matches the pt-BR display format the response tables use.
const timestampLayout = "02/01/2006 15:04:05"

// CSV renders the responses of a form as comma-separated values.
//
// The header row is "Data/Hora" followed by the question texts in form
// order. Each data row starts with the submission timestamp, then one
// cell per question holding the matching answer wrapped in double
// quotes; multi-value answers are joined with ", " inside the cell and
// a question the response never answered yields an empty quoted cell.
// The header and timestamp cells are written bare.
func CSV(form model.Form, responses []model.FormResponse) string {
	var b strings.Builder

	b.WriteString("Data/Hora")
	for _, q := range form.Questions {
		b.WriteByte(',')
		b.WriteString(q.Text)
	}

	for _, resp := range responses {
		b.WriteByte('\n')
		b.WriteString(resp.SubmittedAt.Format(timestampLayout))

		byQuestion := make(map[string]model.AnswerValue, len(resp.Answers))
		for _, a := range resp.Answers {
			byQuestion[a.QuestionID] = a.Value
		}
		for _, q := range form.Questions {
			b.WriteString(`,"`)
			b.WriteString(byQuestion[q.ID].Join(", "))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// Filename returns the suggested download name for a form's export.
func Filename(form model.Form) string {
	return form.Title + "_respostas.csv"
}
