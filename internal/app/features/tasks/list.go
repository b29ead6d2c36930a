// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/store/queries/nodequeries"
	"github.com/dalemusser/planboard/internal/app/system/paging"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// ServeList handles GET /tasks: one keyset page of the owner's nodes
// sorted by folded title, narrowed by the q / kind / status filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, page, err := nodequeries.List(ctx, h.DB, scope.OwnerID,
		query.Get(r, "q"),
		query.Get(r, "kind"),
		query.Get(r, "status"),
		query.Get(r, "before"),
		query.Get(r, "after"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "Could not load your tasks.")
		return
	}

	resp := listResponse{
		Nodes:   rows,
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	}
	prev, next := paging.BuildCursors(rows,
		func(n models.Node) string { return n.TitleCI },
		func(n models.Node) primitive.ObjectID { return n.ID })
	if page.HasPrev {
		resp.Prev = prev
	}
	if page.HasNext {
		resp.Next = next
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}
