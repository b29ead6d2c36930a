// internal/app/features/tasks/view.go
package tasks

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// ServeView handles GET /tasks/{id}: the node plus its direct children in
// display order. The node and the child group are independent queries, so
// they run concurrently.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		node     models.Node
		children []models.Node
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		node, err = h.Tree.Get(gctx, scope, id)
		return err
	})
	g.Go(func() error {
		var err error
		children, err = h.Tree.Children(gctx, scope, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if !writeTreeError(w, err) {
			h.ErrLog.LogServerError(w, r, "load task failed", err, "Could not load the task.")
		}
		return
	}

	tree.SortSiblings(children)
	if children == nil {
		children = []models.Node{}
	}
	uierrors.WriteJSON(w, http.StatusOK, detailResponse{Node: node, Children: children})
}
