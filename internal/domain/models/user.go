// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Organizations are modeled as users with the
// organization role so they can stand in as a donation's receiver.
const (
	RoleDonor        = "donor"
	RoleReceiver     = "receiver"
	RoleVolunteer    = "volunteer"
	RoleOrganization = "organization"
)

// IsValidRole reports whether role is one of the defined role values.
func IsValidRole(role string) bool {
	switch role {
	case RoleDonor, RoleReceiver, RoleVolunteer, RoleOrganization:
		return true
	}
	return false
}

// User is the actor record consumed by this service. Identity and auth
// lifecycle live upstream; only role, contact, and location matter here.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       string             `bson:"role" json:"role"`
	Status     string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	Location   *Location          `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
