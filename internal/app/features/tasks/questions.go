// internal/app/features/tasks/questions.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
)

// ServeAddQuestion handles POST /tasks/{id}/questions: a room viewer asks
// for help on a task, which also flags the task as stuck. This is the one
// write that takes no owner header; students are not owners.
func (h *Handler) ServeAddQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var body questionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, "bad_json", "malformed request body")
		return
	}
	if body.Room == "" {
		uierrors.WriteErrorDetails(w, http.StatusBadRequest, "validation", "say which room you are in",
			map[string]any{"field": "room"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q, err := h.Tree.AddQuestion(ctx, id, body.Room, body.AuthorID, body.AuthorName, body.Body)
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "add question failed", err, "Could not send your question.")
		}
		return
	}

	h.notifyChanged(r)
	uierrors.WriteJSON(w, http.StatusCreated, q)
}

// ServeResolveQuestion handles POST /tasks/{id}/questions/{qid}/resolve.
// Owner-only; the task's status is left for the owner to change separately.
func (h *Handler) ServeResolveQuestion(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	qid, ok := pathID(w, chi.URLParam(r, "qid"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tree.ResolveQuestion(ctx, scope, id, qid); err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "resolve question failed", err, "Could not resolve the question.")
		}
		return
	}

	h.notifyChanged(r)
	w.WriteHeader(http.StatusNoContent)
}
