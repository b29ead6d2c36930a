// internal/app/features/maintenance/routes.go
package maintenance

import "github.com/go-chi/chi/v5"

// Routes returns the maintenance subrouter, mounted at /maintenance.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/normalize", h.ServeNormalize)
	return r
}
