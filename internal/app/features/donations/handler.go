package donations

import (
	"errors"
	"net/http"

	donationstore "github.com/dalemusser/foodbridge/internal/app/store/donations"
	requeststore "github.com/dalemusser/foodbridge/internal/app/store/requests"
	userstore "github.com/dalemusser/foodbridge/internal/app/store/users"
	"github.com/dalemusser/foodbridge/internal/app/system/blob"
	"github.com/dalemusser/foodbridge/internal/app/system/identity"
	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the donation endpoints.
type Handler struct {
	Donations *donationstore.Store
	Requests  *requeststore.Store
	Users     *userstore.Store
	Uploads   blob.Store
	Client    *mongo.Client

	// DefaultRadiusMeters is the nearby-search radius used when the caller
	// does not override it (config key nearby_radius_meters).
	DefaultRadiusMeters float64

	Log *zap.Logger
}

// NewHandler constructs a donations Handler.
func NewHandler(db *mongo.Database, client *mongo.Client, uploads blob.Store, defaultRadiusMeters float64, logger *zap.Logger) *Handler {
	return &Handler{
		Donations:           donationstore.New(db),
		Requests:            requeststore.New(db),
		Users:               userstore.New(db),
		Uploads:             uploads,
		Client:              client,
		DefaultRadiusMeters: defaultRadiusMeters,
		Log:                 logger,
	}
}

// requireActor rejects requests that arrived without an upstream identity.
func requireActor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.CurrentActor(r)
	if !ok {
		webjson.Error(w, http.StatusUnauthorized, "no actor identity supplied")
	}
	return actor, ok
}

// donationID parses the {id} route parameter.
func donationID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "invalid donation id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeStoreError maps store sentinels onto the API error taxonomy.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, donationstore.ErrNotFound):
		webjson.Error(w, http.StatusNotFound, "donation not found")
	case errors.Is(err, donationstore.ErrInvalidTransition):
		metrics.TransitionConflicts.Inc()
		webjson.Error(w, http.StatusConflict, "transition not legal from current status")
	case errors.Is(err, requeststore.ErrNotFound):
		webjson.Error(w, http.StatusNotFound, "request not found")
	default:
		h.Log.Error("donation operation failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
