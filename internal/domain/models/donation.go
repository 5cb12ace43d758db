// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation is an offer of surplus food from a donor, tracked through the
// fulfillment lifecycle in the status field.
//
// Quantity is set at creation and never edited afterwards; the ledger only
// ever adjusts the paired Request. Status, NeedVolunteer, and VolunteerID
// are mutated exclusively through the donation store's conditional
// updates, which enforce the transition table in status.go.
type Donation struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DonorID     primitive.ObjectID  `bson:"donor_id" json:"donor_id"`
	ReceiverID  *primitive.ObjectID `bson:"receiver_id,omitempty" json:"receiver_id,omitempty"`
	VolunteerID *primitive.ObjectID `bson:"volunteer_id,omitempty" json:"volunteer_id,omitempty"`
	RequestID   *primitive.ObjectID `bson:"request_id,omitempty" json:"request_id,omitempty"`

	Quantity      int            `bson:"quantity" json:"quantity"`
	ShelfLife     string         `bson:"shelf_life,omitempty" json:"shelf_life,omitempty"`
	Location      *Location      `bson:"location,omitempty" json:"location,omitempty"`
	PictureRef    string         `bson:"picture_ref,omitempty" json:"picture_ref,omitempty"`
	NeedVolunteer bool           `bson:"need_volunteer" json:"need_volunteer"`
	Status        DonationStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
