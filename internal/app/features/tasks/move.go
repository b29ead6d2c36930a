// internal/app/features/tasks/move.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
)

// ServeMove handles POST /tasks/{id}/move: re-parents the node and carries
// its whole subtree, rebasing every descendant's ancestor chain.
func (h *Handler) ServeMove(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var body moveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, "bad_json", "malformed request body")
		return
	}
	newParentID, ok := parseOptionalParent(w, body.NewParentID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n, err := h.Tree.Move(ctx, scope, id, newParentID)
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "move task failed", err, "Could not move the task.")
		}
		return
	}

	h.notifyChanged(r)
	uierrors.WriteJSON(w, http.StatusOK, n)
}
