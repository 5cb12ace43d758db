package donations

import (
	"context"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
)

// HandleMine processes GET /donations/mine: the donor's donations that
// have progressed past the receiver's decision (approved, picked up by
// the receiver, or rejected).
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	donations, err := h.Donations.ListByDonor(ctx, actor.ID,
		models.StatusApproved, models.StatusPickByReceiver, models.StatusRejected)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	webjson.Write(w, http.StatusOK, map[string]any{"donations": donations})
}

// HandleIncoming processes GET /donations/incoming: donations addressed
// to the acting receiver, split into those awaiting a decision and those
// already approved.
func (h *Handler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pending, err := h.Donations.ListByReceiver(ctx, actor.ID, models.StatusPending)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	approved, err := h.Donations.ListByReceiver(ctx, actor.ID,
		models.StatusApproved, models.StatusVolunteerAssigned)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	webjson.Write(w, http.StatusOK, map[string]any{
		"pending":  pending,
		"approved": approved,
	})
}
