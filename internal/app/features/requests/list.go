package requests

import (
	"context"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
)

// HandleListActive processes GET /requests: every request still accepting
// donations, alongside the active receiving organizations donors can
// route a donation to directly.
func (h *Handler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	active, err := h.Requests.ListActive(ctx)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	orgs, err := h.Users.ListActiveByRole(ctx, models.RoleOrganization)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	webjson.Write(w, http.StatusOK, map[string]any{
		"requests":      active,
		"organizations": orgs,
	})
}
