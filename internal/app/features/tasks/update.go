// internal/app/features/tasks/update.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// ServeUpdate handles PATCH /tasks/{id}. ?autosave=1 marks a silent draft
// save; ?cascade=1 pushes the patched window/status/visibility onto every
// descendant after the node's own write commits. A cascade that fails
// partway still answers 200, with a warning object naming what committed;
// the save itself stood.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, "bad_json", "malformed request body")
		return
	}

	in := tree.UpdateInput{
		Title:       body.Title,
		Description: body.Description,
		Kind:        body.Kind,
		Status:      body.Status,
		Window:      body.Window.toModel(),
		ClearWindow: body.ClearWindow,
		Visibility:  body.Visibility,
		Attachments: body.Attachments,
		Links:       body.Links,
		Autosave:    r.URL.Query().Get("autosave") == "1",
	}
	if body.ParentID != nil {
		parentID, ok := parseOptionalParent(w, *body.ParentID)
		if !ok {
			return
		}
		in.Parent = &tree.ParentChange{ParentID: parentID}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Tree.Update(ctx, scope, id, in, r.URL.Query().Get("cascade") == "1")
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "update task failed", err, "Could not save the task.")
		}
		return
	}

	h.notifyChanged(r)

	if res.CascadeErr != nil {
		warning := &batchWarning{
			Code:    "cascade_incomplete",
			Message: "the task was saved, but pushing the change to its subtasks did not finish; save again to retry",
		}
		var pErr *tree.PartialBatchError
		if errors.As(res.CascadeErr, &pErr) {
			warning.AppliedIDs = pErr.AppliedHex()
		}
		uierrors.WriteJSON(w, http.StatusOK, struct {
			Node    models.Node   `json:"node"`
			Warning *batchWarning `json:"warning"`
		}{Node: res.Node, Warning: warning})
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, res.Node)
}
