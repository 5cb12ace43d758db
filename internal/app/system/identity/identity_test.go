package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMiddlewareResolvesActor(t *testing.T) {
	id := primitive.NewObjectID()

	var got Actor
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = CurrentActor(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderActorID, id.Hex())
	req.Header.Set(HeaderActorRole, models.RoleDonor)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected an actor in context")
	}
	if got.ID != id {
		t.Errorf("actor ID: got %s, want %s", got.ID.Hex(), id.Hex())
	}
	if got.Role != models.RoleDonor {
		t.Errorf("actor role: got %q, want %q", got.Role, models.RoleDonor)
	}
}

func TestMiddlewareRejectsMalformedIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   string
		role string
	}{
		{"missing headers", "", ""},
		{"malformed id", "not-an-object-id", models.RoleDonor},
		{"unknown role", primitive.NewObjectID().Hex(), "superuser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ok bool
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, ok = CurrentActor(r)
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.id != "" {
				req.Header.Set(HeaderActorID, tt.id)
			}
			if tt.role != "" {
				req.Header.Set(HeaderActorRole, tt.role)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if ok {
				t.Error("expected no actor in context")
			}
		})
	}
}

func TestWithActor(t *testing.T) {
	a := Actor{ID: primitive.NewObjectID(), Role: models.RoleVolunteer}
	req := WithActor(httptest.NewRequest("GET", "/", nil), a)

	got, ok := CurrentActor(req)
	if !ok || got != a {
		t.Errorf("CurrentActor = %+v, %v; want %+v, true", got, ok, a)
	}
}
