// internal/app/features/tasks/board.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/store/queries/nodequeries"
	"github.com/dalemusser/planboard/internal/app/system/timeouts"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// boardQuery parses ?room= and ?date= (YYYY-MM-DD, default today UTC).
// ok=false means the response has already been written.
func boardQuery(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	room := query.Get(r, "room")
	if room == "" {
		uierrors.WriteErrorDetails(w, http.StatusBadRequest, "validation", "say which room's board to load",
			map[string]any{"field": "room"})
		return "", time.Time{}, false
	}

	day := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := query.Get(r, "date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			uierrors.WriteErrorDetails(w, http.StatusBadRequest, "validation", "date must be YYYY-MM-DD",
				map[string]any{"field": "date"})
			return "", time.Time{}, false
		}
		day = parsed.UTC()
	}
	return room, day, true
}

// ServeBoard handles GET /board?room=R&date=D: the forest a classroom sees
// for that day. Hot boards come out of the snapshot cache; a miss rebuilds
// from the store and back-fills the cache under the current generation.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	room, day, ok := boardQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if body, hit := h.Cache.Get(ctx, room, day); hit {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}

	rows, err := nodequeries.Board(ctx, h.DB, room, day)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load board failed", err, "Could not load the board.")
		return
	}

	forest := tree.BuildForest(rows)
	if forest == nil {
		forest = []*tree.ViewNode{}
	}
	body, err := json.Marshal(forest)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "encode board failed", err, "Could not load the board.")
		return
	}
	h.Cache.Put(ctx, room, day, body)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
