package requests

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"go.uber.org/zap"
)

// HandleDonate processes POST /requests/{id}/donate: apply a quantity
// against the request without a donation record. Used for walk-in
// donations recorded after the fact; the ledger semantics are identical
// to a paired donation creation.
func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	var in donateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, _, err := h.Requests.ApplyDonation(ctx, id, in.Quantity)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	if !updated.IsActive {
		metrics.RequestsClosed.Inc()
	}
	h.Log.Info("quantity applied to request",
		zap.String("request_id", id.Hex()),
		zap.Int("remaining", updated.Quantity))
	webjson.Write(w, http.StatusOK, map[string]any{
		"request":            updated,
		"remaining_quantity": updated.Quantity,
	})
}
