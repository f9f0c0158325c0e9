package models

import "errors"

// Domain errors surfaced to handlers. pkg/response maps them to HTTP statuses.
var (
	// ErrNotFound is returned when a request, organization, assignment or
	// component does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput covers malformed or out-of-range caller input (unknown
	// resource type, bad priority or status value, out-of-range need index).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLocation is returned when matching is requested for a request
	// without usable coordinates.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrAlreadyAssigned is returned when a second active assignment is created
	// for a request, or when an assigned need is edited or deleted.
	ErrAlreadyAssigned = errors.New("already assigned")

	// ErrLastNeed is returned when deleting the only remaining need on a request.
	ErrLastNeed = errors.New("cannot delete the last need")

	// ErrInvalidStatus is returned for a status value outside the allowed enum or
	// a disallowed transition.
	ErrInvalidStatus = errors.New("invalid status")
)
