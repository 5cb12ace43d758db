package requests

import (
	"context"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"go.uber.org/zap"
)

// HandleDelete processes DELETE /requests/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Requests.Delete(ctx, id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.Log.Info("request deleted", zap.String("request_id", id.Hex()))
	webjson.Write(w, http.StatusOK, map[string]any{"deleted": deleted})
}
