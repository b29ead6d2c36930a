// internal/app/features/tasks/duplicate.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ServeDuplicate handles POST /tasks/{id}/duplicate: a deep copy of the
// node (and optionally its subtree) as brand-new documents, with an empty
// question history and, when requested, a different parent or room list.
func (h *Handler) ServeDuplicate(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var body duplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.WriteError(w, http.StatusBadRequest, "bad_json", "malformed request body")
		return
	}

	opts := tree.DuplicateOptions{
		IncludeDescendants: body.IncludeDescendants,
		NewTitle:           body.NewTitle,
		Visibility:         body.NewVisibility,
	}
	if body.NewParentID != nil {
		parentID, ok := parseOptionalParent(w, *body.NewParentID)
		if !ok {
			return
		}
		opts.Parent = &tree.ParentChange{ParentID: parentID}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	res, err := h.Tree.Duplicate(ctx, scope, id, opts)
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "duplicate task failed", err, "Could not duplicate the task.")
		}
		return
	}

	idMap := make(map[string]string, len(res.IDMap))
	for oldID, newID := range res.IDMap {
		idMap[oldID.Hex()] = newID.Hex()
	}

	h.notifyChanged(r)
	uierrors.WriteJSON(w, http.StatusCreated, duplicateResponse{Node: res.Root, IDMap: idMap})
}
