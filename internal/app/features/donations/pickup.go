package donations

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"go.uber.org/zap"
)

// HandlePickup processes POST /donations/{id}/pickup, choosing how the
// donation gets collected. With volunteer true (and the donation still
// needing one) it enters volunteer assignment; otherwise the receiver
// collects it and need_volunteer is cleared. The branch condition is
// evaluated inside the store's conditional update, not from a prior
// read.
func (h *Handler) HandlePickup(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	var in pickupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.ChoosePickup(ctx, id, in.Volunteer)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(updated.Status)).Inc()
	h.Log.Info("donation pickup mode set",
		zap.String("donation_id", id.Hex()),
		zap.String("status", string(updated.Status)))
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}
