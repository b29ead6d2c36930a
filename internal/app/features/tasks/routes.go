// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the tasks subrouter, mounted at /tasks from bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/tree", h.ServeTree)

	r.Get("/{id}", h.ServeView)
	r.Patch("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Post("/{id}/move", h.ServeMove)
	r.Post("/{id}/duplicate", h.ServeDuplicate)

	r.Post("/{id}/questions", h.ServeAddQuestion)
	r.Post("/{id}/questions/{qid}/resolve", h.ServeResolveQuestion)

	return r
}

// BoardRoutes returns the viewer-facing board subrouter, mounted at /board.
func BoardRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeBoard)
	r.Get("/stream", h.ServeBoardStream)

	return r
}
