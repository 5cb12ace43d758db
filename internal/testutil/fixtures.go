package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/foodbridge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and location.
func (f *Fixtures) CreateUser(ctx context.Context, name, role string, loc *models.Location) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Phone:      "+1-555-0100",
		Role:       role,
		Status:     "active",
		Location:   loc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRequest creates an active test request owned by receiverID.
func (f *Fixtures) CreateRequest(ctx context.Context, receiverID primitive.ObjectID, quantity int) models.Request {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Request{
		ID:            primitive.NewObjectID(),
		ReceiverID:    receiverID,
		Quantity:      quantity,
		IsActive:      quantity > 0,
		ReceiverName:  "Test Receiver",
		ReceiverPhone: "+1-555-0101",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return r
}

// CreateDonation creates a test donation in the given status.
func (f *Fixtures) CreateDonation(ctx context.Context, donorID primitive.ObjectID, quantity int, status models.DonationStatus, loc *models.Location) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorID:       donorID,
		Quantity:      quantity,
		ShelfLife:     "24h",
		Location:      loc,
		NeedVolunteer: true,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("donations").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}
	return d
}

// LocationAt builds a Location at the given coordinates.
func LocationAt(lat, lng float64, landmark string) *models.Location {
	return &models.Location{Point: models.NewGeoPoint(lat, lng), Landmark: landmark}
}
