package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Samuel-A-Santos/form/internal/export"
	"github.com/Samuel-A-Santos/form/model"
)

// submitRequest carries a respondent's answer set keyed by question id.
type submitRequest struct {
	Answers map[string]model.AnswerValue `json:"answers"`
}

func handleListResponses(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := deps.Collector.ListResponses(r.Context(), chi.URLParam(r, "formId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, responses)
	}
}

func handleSubmitResponse(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		resp, err := deps.Collector.Submit(r.Context(), chi.URLParam(r, "formId"), req.Answers)
		if err != nil {
			if deps.Metrics != nil {
				if ee, ok := err.(*model.ErrorEnvelope); ok && ee.Code == model.ErrValidationError {
					deps.Metrics.RecordValidationFailure("response")
					deps.Metrics.RecordResponseSubmission("rejected")
				}
			}
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordResponseSubmission("accepted")
		}
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func handleDeleteResponse(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Collector.DeleteResponse(r.Context(), chi.URLParam(r, "responseId")); err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordResponseDelete()
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleExportCSV(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "formId")

		form, err := deps.Editor.GetForm(r.Context(), formID)
		if err != nil {
			if deps.Metrics != nil {
				deps.Metrics.RecordExport("error")
			}
			WriteError(w, err)
			return
		}
		responses, err := deps.Collector.ListResponses(r.Context(), formID)
		if err != nil {
			if deps.Metrics != nil {
				deps.Metrics.RecordExport("error")
			}
			WriteError(w, err)
			return
		}

		if deps.Metrics != nil {
			deps.Metrics.RecordExport("success")
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(form)+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(export.CSV(form, responses)))
	}
}
