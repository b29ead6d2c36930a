// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ServeDelete handles DELETE /tasks/{id}. When the node has children the
// caller must pick a policy via ?descendants=delete|orphan; without one the
// request fails with the has_children conflict so the client can ask the
// teacher which outcome they meant.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	policy := tree.RefuseChildren
	switch r.URL.Query().Get("descendants") {
	case "":
	case descendantsDelete:
		policy = tree.DeleteDescendants
	case descendantsOrphan:
		policy = tree.OrphanDescendants
	default:
		uierrors.WriteError(w, http.StatusBadRequest, "bad_descendants",
			"descendants must be 'delete' or 'orphan'")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	res, err := h.Tree.Delete(ctx, scope, id, policy)
	if err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "delete task failed", err, "Could not delete the task.")
		}
		return
	}

	h.notifyChanged(r)
	uierrors.WriteJSON(w, http.StatusOK, struct {
		DeletedIDs  []string `json:"deleted_ids"`
		OrphanedIDs []string `json:"orphaned_ids,omitempty"`
	}{
		DeletedIDs:  hexIDs(res.Deleted),
		OrphanedIDs: hexIDs(res.Orphaned),
	})
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
