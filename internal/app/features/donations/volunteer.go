package donations

import (
	"context"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.uber.org/zap"
)

// HandleAssignVolunteer processes POST /donations/{id}/assign. The acting
// volunteer claims the donation. The store's conditional update makes
// this first-wins: a second volunteer racing on the same donation gets a
// conflict, not a silent overwrite.
func (h *Handler) HandleAssignVolunteer(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.RoleVolunteer {
		webjson.Error(w, http.StatusForbidden, "only volunteers can accept a delivery")
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.AssignVolunteer(ctx, id, actor.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(models.StatusVolunteerAssigned)).Inc()
	h.Log.Info("volunteer assigned",
		zap.String("donation_id", id.Hex()),
		zap.String("volunteer_id", actor.ID.Hex()))
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}

// HandleConfirmPickup processes POST /donations/{id}/pickup-confirm:
// the assigned volunteer confirms they have collected the donation,
// moving it to pickbyvolunteer so completion can follow. A volunteer who
// does not hold the assignment gets a conflict.
func (h *Handler) HandleConfirmPickup(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != models.RoleVolunteer {
		webjson.Error(w, http.StatusForbidden, "only volunteers can confirm a pickup")
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.ConfirmPickup(ctx, id, actor.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(models.StatusPickByVolunteer)).Inc()
	h.Log.Info("volunteer pickup confirmed",
		zap.String("donation_id", id.Hex()),
		zap.String("volunteer_id", actor.ID.Hex()))
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}

// HandleSelfVolunteer processes POST /donations/{id}/self-volunteer: the
// donor opts to deliver personally. Legal from any live pre-pickup state;
// a donation already picked up or in a terminal state is refused.
func (h *Handler) HandleSelfVolunteer(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.Transition(ctx, id, models.StatusPickByDonor, nil)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(models.StatusPickByDonor)).Inc()
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}

// HandleNeedVolunteer processes POST /donations/{id}/need-volunteer: a
// self or receiver pickup fell through and a volunteer must be recruited
// after the fact. Only the flag changes; status stays put.
func (h *Handler) HandleNeedVolunteer(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.SetNeedVolunteer(ctx, id, true)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}
