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

// HandleComplete processes POST /donations/{id}/complete: pickup is
// confirmed and the donation reaches its terminal state. Completing a
// donation that was never picked up, or completing twice, is refused.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Donations.Transition(ctx, id, models.StatusCompleted, nil)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	metrics.Transitions.WithLabelValues(string(models.StatusCompleted)).Inc()
	h.Log.Info("donation completed", zap.String("donation_id", id.Hex()))
	webjson.Write(w, http.StatusOK, statusUpdate{Donation: updated})
}

// HandleDelete processes DELETE /donations/{id}. Administrative removal
// is unconditional and bypasses the state machine.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Donations.Delete(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Log.Info("donation deleted", zap.String("donation_id", id.Hex()))
	webjson.Write(w, http.StatusOK, map[string]any{"deleted": deleted})
}
