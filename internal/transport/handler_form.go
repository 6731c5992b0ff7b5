package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Samuel-A-Santos/form/internal/visibility"
	"github.com/Samuel-A-Santos/form/model"
)

// formDetailsRequest is the body for form create and update.
type formDetailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// moveRequest is the body for question reordering.
type moveRequest struct {
	Direction string `json:"direction"`
}

// visibilityRequest carries the current answer set for evaluation.
type visibilityRequest struct {
	Answers map[string]model.AnswerValue `json:"answers"`
}

// visibilityResponse reports which questions are currently shown.
type visibilityResponse struct {
	Visible map[string]bool `json:"visible"`
}

func handleListForms(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := deps.Editor.ListForms(r.Context())
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, forms)
	}
}

func handleGetForm(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := deps.Editor.GetForm(r.Context(), chi.URLParam(r, "formId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, form)
	}
}

func handleCreateForm(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formDetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		form, err := deps.Editor.CreateForm(r.Context(), req.Title, req.Description)
		if err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordFormSave("create")
		}
		WriteJSON(w, http.StatusCreated, form)
	}
}

func handleUpdateForm(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formDetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		form, err := deps.Editor.UpdateDetails(r.Context(), chi.URLParam(r, "formId"), req.Title, req.Description)
		if err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordFormSave("update")
		}
		WriteJSON(w, http.StatusOK, form)
	}
}

func handleDeleteForm(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Editor.DeleteForm(r.Context(), chi.URLParam(r, "formId")); err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordFormDelete()
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAddQuestion(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q model.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		added, err := deps.Editor.AddQuestion(r.Context(), chi.URLParam(r, "formId"), q)
		if err != nil {
			recordQuestionFailure(deps, err)
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordQuestionOp("add")
		}
		WriteJSON(w, http.StatusCreated, added)
	}
}

func handleUpdateQuestion(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q model.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		updated, err := deps.Editor.UpdateQuestion(r.Context(),
			chi.URLParam(r, "formId"), chi.URLParam(r, "questionId"), q)
		if err != nil {
			recordQuestionFailure(deps, err)
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordQuestionOp("update")
		}
		WriteJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteQuestion(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Editor.DeleteQuestion(r.Context(),
			chi.URLParam(r, "formId"), chi.URLParam(r, "questionId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordQuestionOp("delete")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleMoveQuestion(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		err := deps.Editor.MoveQuestion(r.Context(),
			chi.URLParam(r, "formId"), chi.URLParam(r, "questionId"), req.Direction)
		if err != nil {
			WriteError(w, err)
			return
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordQuestionOp("move")
		}

		form, err := deps.Editor.GetForm(r.Context(), chi.URLParam(r, "formId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, form)
	}
}

func handleVisibility(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req visibilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		form, err := deps.Editor.GetForm(r.Context(), chi.URLParam(r, "formId"))
		if err != nil {
			WriteError(w, err)
			return
		}

		start := time.Now()
		visible := visibility.Visible(form.Questions, req.Answers)
		if deps.Metrics != nil {
			deps.Metrics.RecordVisibilityEval(time.Since(start))
		}

		WriteJSON(w, http.StatusOK, visibilityResponse{Visible: visible})
	}
}

func recordQuestionFailure(deps Dependencies, err error) {
	if deps.Metrics == nil {
		return
	}
	if ee, ok := err.(*model.ErrorEnvelope); ok && ee.Code == model.ErrValidationError {
		deps.Metrics.RecordValidationFailure("question")
	}
}
