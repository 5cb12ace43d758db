// Package identity resolves the acting user for a request.
//
// Authentication itself happens upstream; the gateway forwards the
// resolved identity as X-Actor-ID and X-Actor-Role headers and this
// service trusts them. The actor travels in the request context and is
// read with CurrentActor, never from process-wide state.
package identity

import (
	"context"
	"net/http"

	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Header names set by the upstream identity provider.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// Actor is the authenticated caller of the current request.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

type ctxKey struct{}

// Middleware extracts the actor headers into the request context. A
// request without a well-formed actor passes through without one;
// handlers that need an actor reject it via CurrentActor.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(r.Header.Get(HeaderActorID))
		role := r.Header.Get(HeaderActorRole)
		if err == nil && models.IsValidRole(role) {
			ctx := context.WithValue(r.Context(), ctxKey{}, Actor{ID: id, Role: role})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentActor returns the actor for the request, if one was resolved.
func CurrentActor(r *http.Request) (Actor, bool) {
	a, ok := r.Context().Value(ctxKey{}).(Actor)
	return a, ok
}

// WithActor returns a copy of the request carrying the given actor.
// Used by tests to bypass the middleware.
func WithActor(r *http.Request, a Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, a))
}
