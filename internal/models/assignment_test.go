package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AssignmentStatus
		ok       bool
	}{
		{AssignmentNew, AssignmentInProgress, true},
		{AssignmentNew, AssignmentClosed, true},
		{AssignmentInProgress, AssignmentClosed, true},
		{AssignmentInProgress, AssignmentNew, false},
		{AssignmentClosed, AssignmentInProgress, false},
		{AssignmentClosed, AssignmentNew, false},
		{AssignmentNew, "cancelled", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAssignmentActive(t *testing.T) {
	assert.True(t, AssignmentNew.Active())
	assert.True(t, AssignmentInProgress.Active())
	assert.False(t, AssignmentClosed.Active())
}

func TestComponentSettled(t *testing.T) {
	assert.True(t, ComponentDelivered.Settled())
	assert.True(t, ComponentClosed.Settled())
	assert.False(t, ComponentAssigned.Settled())
	assert.False(t, ComponentInProgress.Settled())
}
