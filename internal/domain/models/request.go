// internal/domain/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request is an outstanding need declared by a receiver. Quantity only
// ever decreases as donations are paired against it; IsActive must equal
// (Quantity > 0) after every ledger operation.
//
// ReceiverName/Phone/Location are snapshots taken from the user record at
// creation time so the request stays deliverable even if the receiver
// later edits their profile.
type Request struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`

	Quantity int  `bson:"quantity" json:"quantity"`
	IsActive bool `bson:"is_active" json:"is_active"`

	ReceiverName     string    `bson:"receiver_name,omitempty" json:"receiver_name,omitempty"`
	ReceiverPhone    string    `bson:"receiver_phone,omitempty" json:"receiver_phone,omitempty"`
	ReceiverLocation *Location `bson:"receiver_location,omitempty" json:"receiver_location,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
