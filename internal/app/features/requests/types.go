package requests

// createInput is the CreateRequest body. Receiver contact and location
// are snapshotted from the acting user's record, not taken from the body.
type createInput struct {
	Quantity int `json:"quantity"`
}

// donateInput applies a quantity against a request without creating a
// donation record (walk-in donations recorded after the fact).
type donateInput struct {
	Quantity int `json:"quantity_donated"`
}
