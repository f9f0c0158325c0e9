package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a relief request.
type RequestStatus string

const (
	RequestNew        RequestStatus = "new"
	RequestTriaged    RequestStatus = "triaged"
	RequestInProgress RequestStatus = "in_progress"
	RequestClosed     RequestStatus = "closed"
)

// Priority is the urgency tier of a request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PrioritySOS    Priority = "sos"
)

// ValidPriority reports whether p is one of the known tiers.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PrioritySOS:
		return true
	}
	return false
}

// UrgencyScore maps a priority tier to the numeric weight used on map layers.
func UrgencyScore(p Priority, isSOS bool) int {
	if isSOS {
		return 4
	}
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// NeedAssignment is the per-need assignment state on the request's embedded list.
type NeedAssignment string

const (
	NeedUnassigned NeedAssignment = "unassigned"
	NeedAssigned   NeedAssignment = "assigned"
	NeedDeclined   NeedAssignment = "declined"
)

// Need is one (resource type, quantity) line on a request.
type Need struct {
	Type             ResourceType   `json:"type"`
	Quantity         int            `json:"quantity"`
	AssignmentStatus NeedAssignment `json:"assignment_status"`
	OrganizationID   *uuid.UUID     `json:"organization_id,omitempty"`
}

// Beneficiaries holds headcounts of people behind a request.
type Beneficiaries struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Elderly  int `json:"elderly"`
}

// Total returns the combined headcount.
func (b Beneficiaries) Total() int { return b.Adults + b.Children + b.Elderly }

// Request is a relief request submitted by an affected individual.
type Request struct {
	ID            int64         `json:"id"` // sequence-allocated, 7-digit
	Status        RequestStatus `json:"status"`
	ContactName   string        `json:"contact_name"`
	ContactPhone  string        `json:"contact_phone"`
	Location      *Location     `json:"location"`
	Address       string        `json:"address"`
	SpecialNeeds  string        `json:"special_needs,omitempty"`
	Needs         []Need        `json:"needs"`
	Beneficiaries Beneficiaries `json:"beneficiaries"`
	Priority      Priority      `json:"priority"`
	IsSOS         bool          `json:"is_sos"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Active reports whether the request still counts toward live demand.
func (r *Request) Active() bool { return r.Status != RequestClosed }

// CanEditNeed checks whether the need at index may be modified. Assigned needs are
// immutable until the organization declines or delivers.
func (r *Request) CanEditNeed(index int) error {
	if index < 0 || index >= len(r.Needs) {
		return ErrInvalidInput
	}
	if r.Needs[index].AssignmentStatus == NeedAssigned {
		return ErrAlreadyAssigned
	}
	return nil
}

// CanDeleteNeed checks whether the need at index may be removed. A request must
// always keep at least one need.
func (r *Request) CanDeleteNeed(index int) error {
	if err := r.CanEditNeed(index); err != nil {
		return err
	}
	if len(r.Needs) <= 1 {
		return ErrLastNeed
	}
	return nil
}
