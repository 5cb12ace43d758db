// internal/app/features/requests/routes.go
package requests

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter for request endpoints, mounted under
// /requests.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleListActive)

	r.Route("/{id}", func(r chi.Router) {
		r.Post("/donate", h.HandleDonate)
		r.Delete("/", h.HandleDelete)
	})

	return r
}
