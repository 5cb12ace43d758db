package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/foodbridge/internal/app/store/users"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"github.com/dalemusser/foodbridge/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Dana Donor",
		Phone:    "+1-555-0100",
		Role:     models.RoleDonor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullNameCI == "" {
		t.Error("expected FullNameCI to be set")
	}
	if created.Status != "active" {
		t.Errorf("expected default status 'active', got %q", created.Status)
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{FullName: "Nobody", Role: "admin"})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListActiveByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Beta Bank", models.RoleOrganization, nil)
	fixtures.CreateUser(ctx, "Alpha Pantry", models.RoleOrganization, nil)
	fixtures.CreateUser(ctx, "Dana Donor", models.RoleDonor, nil)

	got, err := store.ListActiveByRole(ctx, models.RoleOrganization)
	if err != nil {
		t.Fatalf("ListActiveByRole failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(got))
	}
	if got[0].FullName != "Alpha Pantry" {
		t.Errorf("expected folded-name sort, got %q first", got[0].FullName)
	}
}
