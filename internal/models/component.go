package models

import (
	"time"

	"github.com/google/uuid"
)

// ComponentStatus is the lifecycle state of a fulfillment component.
type ComponentStatus string

const (
	ComponentNew        ComponentStatus = "new"
	ComponentAssigned   ComponentStatus = "assigned"
	ComponentInProgress ComponentStatus = "in_progress"
	ComponentDelivered  ComponentStatus = "delivered"
	ComponentClosed     ComponentStatus = "closed"
)

// ValidComponentStatus reports whether s is one of the known component states.
func ValidComponentStatus(s ComponentStatus) bool {
	switch s {
	case ComponentNew, ComponentAssigned, ComponentInProgress, ComponentDelivered, ComponentClosed:
		return true
	}
	return false
}

// Settled reports whether the component no longer needs work. A request closes
// once every component is settled.
func (s ComponentStatus) Settled() bool {
	return s == ComponentDelivered || s == ComponentClosed
}

// Component is one independently tracked fulfillment unit, derived from one need
// at request submission. Unique per (request_id, resource_type).
type Component struct {
	ID             uuid.UUID       `json:"id"`
	RequestID      int64           `json:"request_id"`
	Type           ResourceType    `json:"type"`
	Quantity       int             `json:"quantity"`
	Status         ComponentStatus `json:"status"`
	OrganizationID *uuid.UUID      `json:"organization_id,omitempty"`
	DispatcherID   *uuid.UUID      `json:"dispatcher_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
