// internal/app/features/donations/routes.go
package donations

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter for donation endpoints, mounted under
// /donations.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.HandleCreate)
	r.Get("/nearby", h.HandleNearby)
	r.Get("/mine", h.HandleMine)
	r.Get("/incoming", h.HandleIncoming)

	r.Route("/{id}", func(r chi.Router) {
		r.Post("/approve", h.HandleApprove)
		r.Post("/reject", h.HandleReject)
		r.Post("/pickup", h.HandlePickup)
		r.Post("/assign", h.HandleAssignVolunteer)
		r.Post("/pickup-confirm", h.HandleConfirmPickup)
		r.Post("/self-volunteer", h.HandleSelfVolunteer)
		r.Post("/need-volunteer", h.HandleNeedVolunteer)
		r.Post("/complete", h.HandleComplete)
		r.Delete("/", h.HandleDelete)
	})

	return r
}
