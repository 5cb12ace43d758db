package donations

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// HandleApprove processes POST /donations/{id}/approve. The donation must
// still be pending. approve_donation moves it to approved; when the
// receiver also accepts the pickup themselves (accept_as_volunteer), no
// volunteer is needed and the donation goes straight to pickbyreceiver.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	var in approveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !in.ApproveDonation && !in.AcceptAsVolunteer {
		webjson.Error(w, http.StatusBadRequest, "approve_donation or accept_as_volunteer required")
		return
	}

	to := models.StatusApproved
	extra := bson.M{}
	if in.AcceptAsVolunteer {
		to = models.StatusPickByReceiver
		extra["need_volunteer"] = false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	from := []models.DonationStatus{models.StatusPending}
	updated, err := h.Donations.TransitionFrom(ctx, id, from, to, extra)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(to)).Inc()
	h.Log.Info("donation approved",
		zap.String("donation_id", id.Hex()),
		zap.String("status", string(updated.Status)))
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}

// HandleReject processes POST /donations/{id}/reject. Only a pending
// donation can be rejected; rejecting twice fails on the second call.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.Transition(ctx, id, models.StatusRejected, nil)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(models.StatusRejected)).Inc()
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}
