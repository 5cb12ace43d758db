package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/foodbridge/internal/app/system/ledger"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the request is absent or inactive.
	// A fully satisfied request is deliberately indistinguishable from a
	// deleted one: neither can accept further donations.
	ErrNotFound = errors.New("request not found")
	// ErrConflict is returned when concurrent ledger applications exhaust
	// the compare-and-swap retries.
	ErrConflict = errors.New("request quantity changed concurrently")
)

// applyAttempts bounds the CAS retry loop in ApplyDonation.
const applyAttempts = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("requests")}
}

// Create inserts a new active request.
func (s *Store) Create(ctx context.Context, r models.Request) (models.Request, error) {
	r.ID = primitive.NewObjectID()
	r.IsActive = r.Quantity > 0
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Request{}, err
	}
	return r, nil
}

// GetByID loads a request regardless of its active state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var r models.Request
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetActive loads a request only if it is still accepting donations.
func (s *Store) GetActive(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var r models.Request
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ApplyDonation reconciles a donated quantity against the request and
// persists the result. The update is a compare-and-swap on the quantity
// read, so each reconciliation applies exactly once; a lost race is
// retried from a fresh read a bounded number of times.
//
// The returned request reflects the applied state (quantity 0 and
// inactive when the donation closed it). applied is the amount actually
// deducted, which is less than donatedQty when the donation overshoots
// the remaining need, and is what Restore must return on compensation.
func (s *Store) ApplyDonation(ctx context.Context, id primitive.ObjectID, donatedQty int) (req *models.Request, applied int, err error) {
	for attempt := 0; attempt < applyAttempts; attempt++ {
		cur, err := s.GetActive(ctx, id)
		if err != nil {
			return nil, 0, err
		}

		newQty, closed, err := ledger.Reconcile(cur.Quantity, donatedQty)
		if err != nil {
			return nil, 0, err
		}

		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id, "is_active": true, "quantity": cur.Quantity},
			bson.M{"$set": bson.M{
				"quantity":   newQty,
				"is_active":  !closed,
				"updated_at": time.Now().UTC(),
			}},
		)
		if err != nil {
			return nil, 0, err
		}
		if res.MatchedCount == 1 {
			applied := cur.Quantity - newQty
			cur.Quantity = newQty
			cur.IsActive = !closed
			return cur, applied, nil
		}
		// Another donation moved the quantity between our read and write.
	}
	return nil, 0, ErrConflict
}

// Restore is the compensation for a donation insert that failed after
// ApplyDonation committed: it returns the donated quantity to the request
// and reactivates it.
func (s *Store) Restore(ctx context.Context, id primitive.ObjectID, donatedQty int) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"quantity": donatedQty},
			"$set": bson.M{"is_active": true, "updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActive returns every request still accepting donations, newest
// first.
func (s *Store) ListActive(ctx context.Context) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	requests := []models.Request{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Delete removes a request by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var r models.Request
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}
