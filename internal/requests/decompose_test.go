package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieflink/backend/internal/models"
)

func TestComponentsFromNeeds(t *testing.T) {
	needs := []models.Need{
		{Type: models.ResourceFood, Quantity: 10},
		{Type: models.ResourceWater, Quantity: 5},
	}
	components := ComponentsFromNeeds(1000001, needs)

	require.Len(t, components, 2)
	for i, c := range components {
		assert.Equal(t, int64(1000001), c.RequestID)
		assert.Equal(t, needs[i].Type, c.Type)
		assert.Equal(t, needs[i].Quantity, c.Quantity)
		assert.Equal(t, models.ComponentNew, c.Status)
	}
}

func TestComponentsFromNeedsCollapsesDuplicateTypes(t *testing.T) {
	needs := []models.Need{
		{Type: models.ResourceFood, Quantity: 10},
		{Type: models.ResourceFood, Quantity: 3},
		{Type: models.ResourceWater, Quantity: 5},
	}
	components := ComponentsFromNeeds(1000002, needs)

	require.Len(t, components, 2)
	assert.Equal(t, models.ResourceFood, components[0].Type)
	assert.Equal(t, 10, components[0].Quantity)
	assert.Equal(t, models.ResourceWater, components[1].Type)
}

func TestComponentsFromNeedsEmpty(t *testing.T) {
	assert.Empty(t, ComponentsFromNeeds(1000003, nil))
}
