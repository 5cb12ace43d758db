package donations

import "github.com/dalemusser/foodbridge/internal/domain/models"

// createInput is the CreateDonation request body. The picture, if
// present, is an inline base64 image data URL.
type createInput struct {
	Quantity  int      `json:"quantity"`
	ShelfLife string   `json:"shelf_life,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Landmark  string   `json:"landmark,omitempty"`
	Picture   string   `json:"donation_picture,omitempty"`

	// ReceiverID targets a specific receiver; RequestID pairs the donation
	// with an outstanding request. IsOrganization routes the donation to
	// OrgID instead and skips request reconciliation.
	ReceiverID     string `json:"receiver_id,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
	IsOrganization bool   `json:"is_organization,omitempty"`
	OrgID          string `json:"org_id,omitempty"`
}

// approveInput is the ApproveDonation request body.
type approveInput struct {
	ApproveDonation   bool `json:"approve_donation"`
	AcceptAsVolunteer bool `json:"accept_as_volunteer"`
}

// pickupInput selects the pickup mode: with volunteer true (and the
// donation still needing one) the donation goes to volunteer assignment,
// otherwise the receiver collects it themselves.
type pickupInput struct {
	Volunteer bool `json:"volunteer"`
}

// statusUpdate is the envelope returned by every transition endpoint.
type statusUpdate struct {
	Donation *models.Donation `json:"donation"`
}

// nearbyDonation annotates a donation with its distance from the query
// point. Results arrive nearest first.
type nearbyDonation struct {
	models.Donation
	DistanceMeters float64 `json:"distance_meters"`
}
