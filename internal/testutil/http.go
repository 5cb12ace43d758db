package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/foodbridge/internal/app/system/identity"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// DonorActor returns a donor actor with a fresh id.
func DonorActor() identity.Actor {
	return identity.Actor{ID: primitive.NewObjectID(), Role: models.RoleDonor}
}

// ReceiverActor returns a receiver actor with a fresh id.
func ReceiverActor() identity.Actor {
	return identity.Actor{ID: primitive.NewObjectID(), Role: models.RoleReceiver}
}

// VolunteerActor returns a volunteer actor with a fresh id.
func VolunteerActor() identity.Actor {
	return identity.Actor{ID: primitive.NewObjectID(), Role: models.RoleVolunteer}
}

// ActorFor returns an actor carrying the given user's id and role.
func ActorFor(u models.User) identity.Actor {
	return identity.Actor{ID: u.ID, Role: u.Role}
}

// NewJSONRequest creates a request with a JSON-encoded body and an actor
// in context.
func NewJSONRequest(t *testing.T, method, target string, actor identity.Actor, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return identity.WithActor(req, actor)
}

// DecodeJSON decodes a response body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
}
