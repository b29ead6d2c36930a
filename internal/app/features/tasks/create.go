// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ServeCreate handles POST /tasks. With ?autosave=1 the write is a silent
// draft save: incomplete fields are allowed and the node stays a draft.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, "bad_json", "malformed request body")
		return
	}
	parentID, ok := parseOptionalParent(w, body.ParentID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n, err := h.Tree.Create(ctx, scope, tree.CreateInput{
		Kind:        body.Kind,
		ParentID:    parentID,
		Title:       body.Title,
		Description: body.Description,
		Window:      body.Window.toModel(),
		Status:      body.Status,
		Visibility:  body.Visibility,
		Attachments: body.Attachments,
		Links:       body.Links,
		Autosave:    r.URL.Query().Get("autosave") == "1",
	})

	// A partial create still created the node; report it with the warning
	// rather than discarding the id the caller needs.
	var pErr *tree.PartialBatchError
	if errors.As(err, &pErr) && !n.ID.IsZero() {
		h.notifyChanged(r)
		uierrors.WriteJSON(w, http.StatusCreated, struct {
			Node    any           `json:"node"`
			Warning *batchWarning `json:"warning"`
		}{
			Node: n,
			Warning: &batchWarning{
				Code:       "partial_batch",
				Message:    "the task was created but its parent's child list did not update; retrying the operation converges",
				AppliedIDs: pErr.AppliedHex(),
			},
		})
		return
	}
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "create task failed", err, "Could not create the task.")
		}
		return
	}

	h.notifyChanged(r)
	uierrors.WriteJSON(w, http.StatusCreated, n)
}
