// internal/app/features/tasks/stream.go
package tasks

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/planboard/internal/app/features/errors"
	"github.com/dalemusser/planboard/internal/app/system/watch"
	"github.com/dalemusser/planboard/internal/app/tree"
)

// ServeBoardStream handles GET /board/stream?room=R&date=D: a server-sent
// event stream of board forests. Every event is the complete current board,
// so a client renders each one from scratch. The subscription is tied to
// the request context; a dropped connection releases it, which is what
// keeps abandoned viewers from leaking requery volume.
func (h *Handler) ServeBoardStream(w http.ResponseWriter, r *http.Request) {
	room, day, ok := boardQuery(w, r)
	if !ok {
		return
	}
	if h.Hub == nil {
		uierrors.WriteError(w, http.StatusServiceUnavailable, "stream_unavailable", "live updates are not enabled")
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		uierrors.WriteError(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	sub := h.Hub.Subscribe(watch.Query{Room: room, Day: day})
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-sub.Snapshots():
			if !open {
				return
			}
			forest := tree.BuildForest(snap)
			if forest == nil {
				forest = []*tree.ViewNode{}
			}
			body, err := json.Marshal(forest)
			if err != nil {
				h.Log.Error("board stream encode failed",
					zap.String("room", room),
					zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: board\ndata: %s\n\n", body)
			flusher.Flush()
		}
	}
}
