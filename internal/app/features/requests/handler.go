package requests

import (
	"errors"
	"net/http"

	requeststore "github.com/dalemusser/foodbridge/internal/app/store/requests"
	userstore "github.com/dalemusser/foodbridge/internal/app/store/users"
	"github.com/dalemusser/foodbridge/internal/app/system/identity"
	"github.com/dalemusser/foodbridge/internal/app/system/ledger"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the request endpoints.
type Handler struct {
	Requests *requeststore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a requests Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: requeststore.New(db),
		Users:    userstore.New(db),
		Log:      logger,
	}
}

func requireActor(w http.ResponseWriter, r *http.Request) (identity.Actor, bool) {
	actor, ok := identity.CurrentActor(r)
	if !ok {
		webjson.Error(w, http.StatusUnauthorized, "no actor identity supplied")
	}
	return actor, ok
}

func requestID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "invalid request id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, requeststore.ErrNotFound):
		webjson.Error(w, http.StatusNotFound, "request not found")
	case errors.Is(err, userstore.ErrNotFound):
		webjson.Error(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ledger.ErrInvalidQuantity):
		webjson.Error(w, http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, requeststore.ErrConflict):
		webjson.Error(w, http.StatusConflict, "request is being updated concurrently, retry")
	default:
		h.Log.Error("request operation failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
