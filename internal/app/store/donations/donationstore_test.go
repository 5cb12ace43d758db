package donationstore_test

import (
	"errors"
	"sync"
	"testing"

	donationstore "github.com/dalemusser/foodbridge/internal/app/store/donations"
	"github.com/dalemusser/foodbridge/internal/app/system/indexes"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"github.com/dalemusser/foodbridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, testutil.LocationAt(38.95, -92.33, "bakery"))

	created, err := store.Create(ctx, models.Donation{
		DonorID:   donor.ID,
		Quantity:  5,
		ShelfLife: "48h",
		Location:  donor.Location,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.StatusPending {
		t.Errorf("expected status %q, got %q", models.StatusPending, created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, donationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Transition_LegalMove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending, nil)

	updated, err := store.Transition(ctx, d.ID, models.StatusApproved, nil)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("expected status %q, got %q", models.StatusApproved, updated.Status)
	}
	if !updated.UpdatedAt.After(d.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestStore_Transition_IllegalMove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusRejected, nil)

	// rejected is terminal; approving it must fail.
	_, err := store.Transition(ctx, d.ID, models.StatusApproved, nil)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// The document must be untouched.
	after, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if after.Status != models.StatusRejected {
		t.Errorf("status changed despite illegal transition: %q", after.Status)
	}
}

func TestStore_Transition_MissingDonation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Transition(ctx, primitive.NewObjectID(), models.StatusApproved, nil)
	if !errors.Is(err, donationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Transition_DoubleActionSecondLoses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending, nil)

	if _, err := store.Transition(ctx, d.ID, models.StatusRejected, nil); err != nil {
		t.Fatalf("first reject failed: %v", err)
	}
	_, err := store.Transition(ctx, d.ID, models.StatusRejected, nil)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on second reject, got %v", err)
	}
}

func TestStore_TransitionFrom_NarrowedSources(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)

	// Approval requires pending; an already-approved donation is not a
	// legal source even though approved -> assigning_volunteer exists.
	_, err := store.TransitionFrom(ctx, d.ID,
		[]models.DonationStatus{models.StatusPending}, models.StatusApproved, nil)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_Transition_ExtraFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	receiver := fixtures.CreateUser(ctx, "Rita Receiver", models.RoleReceiver, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending, nil)

	updated, err := store.Transition(ctx, d.ID, models.StatusApproved,
		bson.M{"receiver_id": receiver.ID})
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	if updated.ReceiverID == nil || *updated.ReceiverID != receiver.ID {
		t.Errorf("expected receiver_id %v to be set, got %v", receiver.ID, updated.ReceiverID)
	}
}

func TestStore_AssignVolunteer_FirstWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	v1 := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)
	v2 := fixtures.CreateUser(ctx, "Victor Volunteer", models.RoleVolunteer, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusAssigningVolunteer, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, vid := range []primitive.ObjectID{v1.ID, v2.ID} {
		wg.Add(1)
		go func(i int, vid primitive.ObjectID) {
			defer wg.Done()
			_, errs[i] = store.AssignVolunteer(ctx, d.ID, vid)
		}(i, vid)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, donationstore.ErrInvalidTransition):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Errorf("expected exactly one winner and one loser, got %d wins, %d losses", wins, losses)
	}

	after, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if after.Status != models.StatusVolunteerAssigned {
		t.Errorf("expected status %q, got %q", models.StatusVolunteerAssigned, after.Status)
	}
	if after.VolunteerID == nil {
		t.Error("expected volunteer_id to be set")
	}
}

func TestStore_AssignVolunteer_WrongStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	vol := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending, nil)

	_, err := store.AssignVolunteer(ctx, d.ID, vol.ID)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_ConfirmPickup_AssignedVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	vol := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusAssigningVolunteer, nil)

	if _, err := store.AssignVolunteer(ctx, d.ID, vol.ID); err != nil {
		t.Fatalf("AssignVolunteer failed: %v", err)
	}

	updated, err := store.ConfirmPickup(ctx, d.ID, vol.ID)
	if err != nil {
		t.Fatalf("ConfirmPickup failed: %v", err)
	}
	if updated.Status != models.StatusPickByVolunteer {
		t.Errorf("expected status %q, got %q", models.StatusPickByVolunteer, updated.Status)
	}

	// The confirmed pickup can now reach the terminal state.
	done, err := store.Transition(ctx, d.ID, models.StatusCompleted, nil)
	if err != nil {
		t.Fatalf("Transition to completed failed: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("expected status %q, got %q", models.StatusCompleted, done.Status)
	}
}

func TestStore_ConfirmPickup_WrongVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	vol := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)
	other := fixtures.CreateUser(ctx, "Victor Volunteer", models.RoleVolunteer, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusAssigningVolunteer, nil)

	if _, err := store.AssignVolunteer(ctx, d.ID, vol.ID); err != nil {
		t.Fatalf("AssignVolunteer failed: %v", err)
	}

	_, err := store.ConfirmPickup(ctx, d.ID, other.ID)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for non-assigned volunteer, got %v", err)
	}
}

func TestStore_ConfirmPickup_NotAssigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	vol := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)

	_, err := store.ConfirmPickup(ctx, d.ID, vol.ID)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition before assignment, got %v", err)
	}
}

func TestStore_ChoosePickup_VolunteerWanted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)

	updated, err := store.ChoosePickup(ctx, d.ID, true)
	if err != nil {
		t.Fatalf("ChoosePickup failed: %v", err)
	}
	if updated.Status != models.StatusAssigningVolunteer {
		t.Errorf("expected status %q, got %q", models.StatusAssigningVolunteer, updated.Status)
	}
}

func TestStore_ChoosePickup_FlagGuardsBranch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)
	if _, err := store.SetNeedVolunteer(ctx, d.ID, false); err != nil {
		t.Fatalf("SetNeedVolunteer failed: %v", err)
	}

	// Asking for a volunteer when none is needed falls through to self
	// pickup; the flag is checked inside the conditional update.
	updated, err := store.ChoosePickup(ctx, d.ID, true)
	if err != nil {
		t.Fatalf("ChoosePickup failed: %v", err)
	}
	if updated.Status != models.StatusSelfPickup {
		t.Errorf("expected status %q, got %q", models.StatusSelfPickup, updated.Status)
	}
}

func TestStore_ChoosePickup_WrongStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusCompleted, nil)

	_, err := store.ChoosePickup(ctx, d.ID, true)
	if !errors.Is(err, donationstore.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStore_ChoosePickup_ClearsSnapshottedVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donorVol := fixtures.CreateUser(ctx, "Dana Donor", models.RoleVolunteer, nil)
	claimer := fixtures.CreateUser(ctx, "Vera Volunteer", models.RoleVolunteer, nil)

	// A volunteer-role donor gets their own id snapshotted at creation.
	vid := donorVol.ID
	d, err := store.Create(ctx, models.Donation{
		DonorID:       donorVol.ID,
		VolunteerID:   &vid,
		Quantity:      5,
		NeedVolunteer: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.ChoosePickup(ctx, d.ID, true); err != nil {
		t.Fatalf("ChoosePickup failed: %v", err)
	}

	// The snapshot must not block the claim guard.
	updated, err := store.AssignVolunteer(ctx, d.ID, claimer.ID)
	if err != nil {
		t.Fatalf("AssignVolunteer failed: %v", err)
	}
	if updated.VolunteerID == nil || *updated.VolunteerID != claimer.ID {
		t.Errorf("expected volunteer_id %v, got %v", claimer.ID, updated.VolunteerID)
	}
}

func TestStore_SetNeedVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusSelfPickup, nil)

	updated, err := store.SetNeedVolunteer(ctx, d.ID, true)
	if err != nil {
		t.Fatalf("SetNeedVolunteer failed: %v", err)
	}
	if !updated.NeedVolunteer {
		t.Error("expected need_volunteer true")
	}
	if updated.Status != models.StatusSelfPickup {
		t.Errorf("status must not change, got %q", updated.Status)
	}
}

func TestStore_FindNearby(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index creation failed: %v", err)
	}

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)

	// Columbia, MO city hall as the search origin. ~0.01 degrees of
	// latitude is roughly 1.1km.
	origin := models.NewGeoPoint(38.9517, -92.3341)
	near := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved,
		testutil.LocationAt(38.9520, -92.3341, "two blocks away"))
	farther := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved,
		testutil.LocationAt(38.9800, -92.3341, "across town"))
	fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved,
		testutil.LocationAt(39.0997, -94.5786, "kansas city, out of range"))
	fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending,
		testutil.LocationAt(38.9520, -92.3341, "near but pending"))
	fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)

	got, err := store.FindNearby(ctx, origin, 5000, models.StatusApproved)
	if err != nil {
		t.Fatalf("FindNearby failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 donations within 5km, got %d", len(got))
	}
	// $nearSphere orders nearest first.
	if got[0].ID != near.ID {
		t.Errorf("expected nearest donation first, got %v", got[0].ID)
	}
	if got[1].ID != farther.ID {
		t.Errorf("expected farther donation second, got %v", got[1].ID)
	}
}

func TestStore_FindNearby_EmptyResult(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index creation failed: %v", err)
	}

	got, err := store.FindNearby(ctx, models.NewGeoPoint(0, 0), 5000, models.StatusApproved)
	if err != nil {
		t.Fatalf("FindNearby failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d donations", len(got))
	}
}

func TestStore_ListByDonor_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	other := fixtures.CreateUser(ctx, "Omar Other", models.RoleDonor, nil)

	fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusApproved, nil)
	fixtures.CreateDonation(ctx, donor.ID, 3, models.StatusRejected, nil)
	fixtures.CreateDonation(ctx, donor.ID, 2, models.StatusPending, nil)
	fixtures.CreateDonation(ctx, other.ID, 9, models.StatusApproved, nil)

	got, err := store.ListByDonor(ctx, donor.ID, models.StatusApproved, models.StatusRejected)
	if err != nil {
		t.Fatalf("ListByDonor failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 donations, got %d", len(got))
	}
	for _, d := range got {
		if d.DonorID != donor.ID {
			t.Errorf("donation %v belongs to the wrong donor", d.ID)
		}
		if d.Status == models.StatusPending {
			t.Errorf("pending donation leaked through the status filter")
		}
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := donationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)
	d := fixtures.CreateDonation(ctx, donor.ID, 5, models.StatusPending, nil)

	deleted, err := store.Delete(ctx, d.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ID != d.ID {
		t.Errorf("deleted the wrong donation: %v", deleted.ID)
	}

	_, err = store.Delete(ctx, d.ID)
	if !errors.Is(err, donationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
