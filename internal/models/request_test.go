package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanEditNeed(t *testing.T) {
	r := &Request{Needs: []Need{
		{Type: ResourceFood, Quantity: 10, AssignmentStatus: NeedUnassigned},
		{Type: ResourceWater, Quantity: 5, AssignmentStatus: NeedAssigned},
		{Type: ResourceMedicine, Quantity: 2, AssignmentStatus: NeedDeclined},
	}}

	assert.NoError(t, r.CanEditNeed(0))
	assert.ErrorIs(t, r.CanEditNeed(1), ErrAlreadyAssigned)
	assert.NoError(t, r.CanEditNeed(2))
	assert.ErrorIs(t, r.CanEditNeed(-1), ErrInvalidInput)
	assert.ErrorIs(t, r.CanEditNeed(3), ErrInvalidInput)
}

func TestCanDeleteNeed(t *testing.T) {
	r := &Request{Needs: []Need{
		{Type: ResourceFood, AssignmentStatus: NeedUnassigned},
		{Type: ResourceWater, AssignmentStatus: NeedAssigned},
	}}
	assert.NoError(t, r.CanDeleteNeed(0))
	assert.ErrorIs(t, r.CanDeleteNeed(1), ErrAlreadyAssigned)

	last := &Request{Needs: []Need{{Type: ResourceFood, AssignmentStatus: NeedUnassigned}}}
	assert.ErrorIs(t, last.CanDeleteNeed(0), ErrLastNeed)
}

func TestUrgencyScore(t *testing.T) {
	assert.Equal(t, 4, UrgencyScore(PriorityLow, true))
	assert.Equal(t, 3, UrgencyScore(PriorityHigh, false))
	assert.Equal(t, 2, UrgencyScore(PriorityMedium, false))
	assert.Equal(t, 1, UrgencyScore(PriorityLow, false))
}

func TestValidResourceType(t *testing.T) {
	require.True(t, ValidResourceType(ResourceWater))
	require.False(t, ValidResourceType("fuel"))
}
