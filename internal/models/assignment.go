package models

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the lifecycle state of a request-level assignment.
// Transitions are linear: new -> in_progress -> closed. Closed is terminal.
type AssignmentStatus string

const (
	AssignmentNew        AssignmentStatus = "new"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentClosed     AssignmentStatus = "closed"
)

// ValidAssignmentStatus reports whether s is one of the three allowed states.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentNew, AssignmentInProgress, AssignmentClosed:
		return true
	}
	return false
}

// Active reports whether the assignment still blocks new assignments for its request.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentNew || s == AssignmentInProgress
}

var assignmentRank = map[AssignmentStatus]int{
	AssignmentNew:        0,
	AssignmentInProgress: 1,
	AssignmentClosed:     2,
}

// CanTransition reports whether an assignment may move from one status to another.
// Backward moves and transitions out of closed are rejected.
func (s AssignmentStatus) CanTransition(to AssignmentStatus) bool {
	from, ok := assignmentRank[s]
	if !ok {
		return false
	}
	next, ok := assignmentRank[to]
	if !ok {
		return false
	}
	return next >= from
}

// Assignment binds one request to one organization at request granularity. At most
// one active assignment may exist per request at a time.
type Assignment struct {
	ID             uuid.UUID        `json:"id"`
	RequestID      int64            `json:"request_id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	DispatcherID   uuid.UUID        `json:"dispatcher_id"`
	Status         AssignmentStatus `json:"status"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}
