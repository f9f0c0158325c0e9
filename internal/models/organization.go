package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the review state of an organization.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// ValidVerificationStatus reports whether s is a known review state.
func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}

// Offer is one (resource type, quantity) line of declared capacity. Offers are
// declarative; assignments do not reserve or decrement them.
type Offer struct {
	Type     ResourceType `json:"type"`
	Quantity int          `json:"quantity"`
}

// Organization is a registered NGO or relief entity.
type Organization struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	ContactPhone       string             `json:"contact_phone"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Suspended          bool               `json:"suspended"`
	Latitude           float64            `json:"latitude"`
	Longitude          float64            `json:"longitude"`
	Address            string             `json:"address"`
	Offers             []Offer            `json:"offers"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Eligible reports whether the organization may receive assignments and appear in
// matching: verified or approved, and not suspended.
func (o *Organization) Eligible() bool {
	if o.Suspended {
		return false
	}
	return o.VerificationStatus == VerificationVerified || o.VerificationStatus == VerificationApproved
}

// OfferFor returns the organization's offer for the given resource type, if any.
func (o *Organization) OfferFor(t ResourceType) (Offer, bool) {
	for _, of := range o.Offers {
		if of.Type == t {
			return of, true
		}
	}
	return Offer{}, false
}

// TotalCapacity sums declared quantities across all offers.
func (o *Organization) TotalCapacity() int {
	total := 0
	for _, of := range o.Offers {
		total += of.Quantity
	}
	return total
}

// HasCoordinates reports whether the organization has a usable geolocation.
func (o *Organization) HasCoordinates() bool {
	return validCoords(o.Latitude, o.Longitude)
}
