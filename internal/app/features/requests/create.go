package requests

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate processes POST /requests. The acting receiver's name,
// phone, and location are snapshotted onto the request at creation time
// so later profile edits don't break deliveries in flight.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in createInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if in.Quantity <= 0 {
		webjson.Error(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, actor.ID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	req := models.Request{
		ReceiverID:       user.ID,
		Quantity:         in.Quantity,
		ReceiverName:     user.FullName,
		ReceiverPhone:    user.Phone,
		ReceiverLocation: user.Location,
	}

	created, err := h.Requests.Create(ctx, req)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Log.Info("request created",
		zap.String("request_id", created.ID.Hex()),
		zap.String("receiver_id", user.ID.Hex()),
		zap.Int("quantity", created.Quantity))
	webjson.Write(w, http.StatusCreated, map[string]any{"request": created})
}
