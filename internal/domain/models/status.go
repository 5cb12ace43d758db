// internal/domain/models/status.go
package models

// DonationStatus is the closed set of lifecycle states a donation moves
// through. The string values are stored verbatim in MongoDB and in API
// responses, so they must never be renamed once data exists.
type DonationStatus string

const (
	StatusPending            DonationStatus = "pending"
	StatusApproved           DonationStatus = "approved"
	StatusRejected           DonationStatus = "rejected"
	StatusAssigningVolunteer DonationStatus = "assigning_volunteer"
	StatusSelfPickup         DonationStatus = "self_pickup"
	StatusVolunteerAssigned  DonationStatus = "volunteer_assigned"
	StatusPickByDonor        DonationStatus = "pickbydonor"
	StatusPickByReceiver     DonationStatus = "pickbyreceiver"
	StatusPickByVolunteer    DonationStatus = "pickbyvolunteer"
	StatusCompleted          DonationStatus = "completed"
)

// AllStatuses lists every valid status value. Used for validation of
// caller-supplied status filters.
var AllStatuses = []DonationStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusAssigningVolunteer,
	StatusSelfPickup,
	StatusVolunteerAssigned,
	StatusPickByDonor,
	StatusPickByReceiver,
	StatusPickByVolunteer,
	StatusCompleted,
}

// transitions is the single authoritative transition table. Handlers and
// stores never compare status strings ad hoc; they ask this table.
var transitions = map[DonationStatus][]DonationStatus{
	StatusPending: {
		StatusApproved,
		StatusRejected,
		StatusAssigningVolunteer,
		StatusSelfPickup,
		StatusPickByReceiver,
		StatusPickByDonor,
	},
	StatusApproved: {
		StatusAssigningVolunteer,
		StatusSelfPickup,
		StatusPickByDonor,
	},
	StatusAssigningVolunteer: {
		StatusVolunteerAssigned,
		StatusPickByDonor,
	},
	StatusVolunteerAssigned: {
		StatusPickByVolunteer,
		StatusPickByDonor,
	},
	StatusSelfPickup: {
		StatusPickByReceiver,
		StatusPickByDonor,
	},
	StatusPickByDonor:     {StatusCompleted},
	StatusPickByReceiver:  {StatusCompleted},
	StatusPickByVolunteer: {StatusCompleted},
	StatusRejected:        nil,
	StatusCompleted:       nil,
}

// IsValidStatus reports whether s is one of the defined status values.
func IsValidStatus(s DonationStatus) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is legal from s.
func IsTerminal(s DonationStatus) bool {
	ts, ok := transitions[s]
	return ok && len(ts) == 0
}

// IsPickupState reports whether s is one of the picked-up variants from
// which a donation can be completed.
func IsPickupState(s DonationStatus) bool {
	switch s {
	case StatusPickByDonor, StatusPickByReceiver, StatusPickByVolunteer:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from, to DonationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// SourcesOf returns every state from which to is directly reachable.
// Stores use this to build the conditional-update filter that makes a
// transition a compare-and-swap on status.
func SourcesOf(to DonationStatus) []DonationStatus {
	var from []DonationStatus
	for _, s := range AllStatuses {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}
