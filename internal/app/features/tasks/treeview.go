// internal/app/features/tasks/treeview.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ServeTree handles GET /tasks/tree: the owner's whole forest, or with
// ?root={id} just that node's subtree, reconstructed for display. The
// response is the nested ViewNode forest; depth comes free from nesting.
func (h *Handler) ServeTree(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var forest []*tree.ViewNode
	if raw := query.Get(r, "root"); raw != "" {
		id, ok := pathID(w, raw)
		if !ok {
			return
		}
		node, desc, err := h.Tree.Subtree(ctx, scope, id)
		if err != nil {
			if !writeTreeError(w, err) {
				h.ErrLog.LogServerError(w, r, "load subtree failed", err, "Could not load the tree.")
			}
			return
		}
		forest = tree.BuildForest(append(desc, node))
	} else {
		nodes, err := h.Tree.Forest(ctx, scope)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load forest failed", err, "Could not load the tree.")
			return
		}
		forest = tree.BuildForest(nodes)
	}

	if forest == nil {
		forest = []*tree.ViewNode{}
	}
	uierrors.WriteJSON(w, http.StatusOK, forest)
}
