package donationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the donation id does not resolve.
	ErrNotFound = errors.New("donation not found")
	// ErrInvalidTransition is returned when the donation exists but is not
	// in a state the requested transition is legal from. A concurrent
	// writer winning the conditional update surfaces the same way.
	ErrInvalidTransition = errors.New("transition not legal from current status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// Create inserts a new donation in the pending state.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	d.ID = primitive.NewObjectID()
	d.Status = models.StatusPending
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// GetByID loads a donation by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Transition moves a donation to the target status. The update is
// conditional on the current status being a legal source for the target,
// so two concurrent actions against a stale read cannot both succeed.
// extra carries additional $set fields applied with the status change.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to models.DonationStatus, extra bson.M) (*models.Donation, error) {
	from := models.SourcesOf(to)
	if len(from) == 0 {
		return nil, ErrInvalidTransition
	}
	return s.transitionFrom(ctx, id, from, to, extra)
}

// TransitionFrom is Transition with an explicit, narrower set of source
// states (e.g. approve requires exactly pending even though approved is
// reachable from it alone anyway).
func (s *Store) TransitionFrom(ctx context.Context, id primitive.ObjectID, from []models.DonationStatus, to models.DonationStatus, extra bson.M) (*models.Donation, error) {
	for _, f := range from {
		if !models.CanTransition(f, to) {
			return nil, ErrInvalidTransition
		}
	}
	return s.transitionFrom(ctx, id, from, to, extra)
}

func (s *Store) transitionFrom(ctx context.Context, id primitive.ObjectID, from []models.DonationStatus, to models.DonationStatus, extra bson.M) (*models.Donation, error) {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		set[k] = v
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// The conditional update missed: either the donation is gone or its
	// status disqualified it.
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrInvalidTransition
}

// AssignVolunteer claims a donation for a volunteer. The volunteer_id
// guard means the first volunteer wins and the loser gets
// ErrInvalidTransition, even when both read assigning_volunteer.
func (s *Store) AssignVolunteer(ctx context.Context, id, volunteerID primitive.ObjectID) (*models.Donation, error) {
	filter := bson.M{
		"_id":          id,
		"status":       models.StatusAssigningVolunteer,
		"volunteer_id": nil,
	}
	set := bson.M{
		"status":       models.StatusVolunteerAssigned,
		"volunteer_id": volunteerID,
		"updated_at":   time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrInvalidTransition
}

// ConfirmPickup records that the assigned volunteer has collected the
// donation. The filter requires the caller to hold the assignment, so a
// volunteer cannot confirm a pickup that belongs to someone else.
func (s *Store) ConfirmPickup(ctx context.Context, id, volunteerID primitive.ObjectID) (*models.Donation, error) {
	filter := bson.M{
		"_id":          id,
		"status":       models.StatusVolunteerAssigned,
		"volunteer_id": volunteerID,
	}
	set := bson.M{
		"status":     models.StatusPickByVolunteer,
		"updated_at": time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrInvalidTransition
}

// ChoosePickup moves a pending or approved donation onto its pickup
// path. The need_volunteer flag is part of the conditional update, so a
// concurrent flag flip cannot steer a stale branch choice. Entering
// volunteer assignment also clears any volunteer snapshotted at creation
// so the claim guard in AssignVolunteer stays open.
func (s *Store) ChoosePickup(ctx context.Context, id primitive.ObjectID, wantVolunteer bool) (*models.Donation, error) {
	from := bson.M{"$in": []models.DonationStatus{models.StatusPending, models.StatusApproved}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	if wantVolunteer {
		filter := bson.M{"_id": id, "status": from, "need_volunteer": true}
		set := bson.M{
			"status":       models.StatusAssigningVolunteer,
			"volunteer_id": nil,
			"updated_at":   time.Now().UTC(),
		}

		var d models.Donation
		err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&d)
		if err == nil {
			return &d, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		// Either the status disqualified it or no volunteer is needed;
		// the self-pickup attempt below settles which.
	}

	filter := bson.M{"_id": id, "status": from}
	set := bson.M{
		"status":         models.StatusSelfPickup,
		"need_volunteer": false,
		"updated_at":     time.Now().UTC(),
	}

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&d)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrInvalidTransition
}

// SetNeedVolunteer flips the need_volunteer flag without touching status.
// Used when a self-pickup path falls through and a volunteer must be
// recruited after the fact.
func (s *Store) SetNeedVolunteer(ctx context.Context, id primitive.ObjectID, need bool) (*models.Donation, error) {
	set := bson.M{"need_volunteer": need, "updated_at": time.Now().UTC()}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindNearby returns donations in the given status within radiusMeters of
// point, nearest first. The 2dsphere index only covers documents with a
// location, so donations without one are never candidates. An empty
// result is a normal outcome, not an error.
func (s *Store) FindNearby(ctx context.Context, point models.GeoPoint, radiusMeters float64, status models.DonationStatus) ([]models.Donation, error) {
	filter := bson.M{
		"status": status,
		"location.point": bson.M{
			"$nearSphere": bson.M{
				"$geometry":    point,
				"$maxDistance": radiusMeters,
			},
		},
	}

	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	donations := []models.Donation{}
	if err := cur.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// ListByDonor returns a donor's donations, optionally narrowed to a set
// of statuses, newest first.
func (s *Store) ListByDonor(ctx context.Context, donorID primitive.ObjectID, statuses ...models.DonationStatus) ([]models.Donation, error) {
	filter := bson.M{"donor_id": donorID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.list(ctx, filter)
}

// ListByReceiver returns the donations addressed to a receiver, optionally
// narrowed to a set of statuses, newest first.
func (s *Store) ListByReceiver(ctx context.Context, receiverID primitive.ObjectID, statuses ...models.DonationStatus) ([]models.Donation, error) {
	filter := bson.M{"receiver_id": receiverID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return s.list(ctx, filter)
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	donations := []models.Donation{}
	if err := cur.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

// Delete removes a donation unconditionally. Administrative removal
// bypasses the state machine by design.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
