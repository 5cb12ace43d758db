// Package ledger holds the quantity-reconciliation rule that links a
// donation to the request it satisfies.
//
// Reconcile is pure: the caller persists the result, and the request
// store's conditional update guarantees a computed result is applied at
// most once per donation-request pairing.
package ledger

import "errors"

// ErrInvalidQuantity is returned for a non-positive donated quantity or a
// negative request quantity.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Reconcile applies a donated quantity against a request's outstanding
// quantity. It returns the request's new quantity and whether the request
// becomes inactive (fully satisfied).
func Reconcile(requestQty, donatedQty int) (newQty int, closed bool, err error) {
	if donatedQty <= 0 || requestQty < 0 {
		return 0, false, ErrInvalidQuantity
	}
	if donatedQty >= requestQty {
		return 0, true, nil
	}
	return requestQty - donatedQty, false, nil
}
