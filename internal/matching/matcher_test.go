package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/internal/organizations"
)

func newRequest(needs ...models.Need) *models.Request {
	return &models.Request{ID: 1000001, Needs: needs}
}

func candidate(distanceKm float64, offers ...models.Offer) organizations.Candidate {
	return organizations.Candidate{
		Organization: models.Organization{Name: "org", Offers: offers},
		DistanceKm:   distanceKm,
	}
}

func TestScoreFullCoverage(t *testing.T) {
	req := newRequest(
		models.Need{Type: models.ResourceFood, Quantity: 10},
		models.Need{Type: models.ResourceWater, Quantity: 5},
	)
	c := candidate(10,
		models.Offer{Type: models.ResourceFood, Quantity: 50},
		models.Offer{Type: models.ResourceWater, Quantity: 5},
	)

	s := Score(req, c)
	assert.InDelta(t, 20.0, s.MatchScore, 1e-9) // both needs fully covered
	assert.InDelta(t, 90.0, s.DistanceScore, 1e-9)
	assert.InDelta(t, 48.0, s.CombinedScore, 1e-9) // 0.4*90 + 0.6*20
	assert.True(t, s.CanPartiallyFulfill)
	assert.True(t, s.CanFullyFulfill)
	require.Len(t, s.MatchedNeeds, 2)
	assert.True(t, s.MatchedNeeds[0].Fulfillable)
	assert.True(t, s.MatchedNeeds[1].Fulfillable)
}

func TestScorePartialCoverage(t *testing.T) {
	req := newRequest(
		models.Need{Type: models.ResourceFood, Quantity: 10},
		models.Need{Type: models.ResourceMedicine, Quantity: 4},
	)
	c := candidate(20, models.Offer{Type: models.ResourceFood, Quantity: 5})

	s := Score(req, c)
	assert.InDelta(t, 5.0, s.MatchScore, 1e-9) // 5/10 * 10
	assert.True(t, s.CanPartiallyFulfill)
	assert.False(t, s.CanFullyFulfill)
	require.Len(t, s.MatchedNeeds, 1)
	assert.False(t, s.MatchedNeeds[0].Fulfillable)
}

func TestScoreNoOverlap(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceShelter, Quantity: 2})
	c := candidate(5, models.Offer{Type: models.ResourceWater, Quantity: 100})

	s := Score(req, c)
	assert.Zero(t, s.MatchScore)
	assert.False(t, s.CanPartiallyFulfill)
	assert.False(t, s.CanFullyFulfill)
	assert.Empty(t, s.MatchedNeeds)
}

func TestScoreDistanceSaturation(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceFood, Quantity: 1})
	s := Score(req, candidate(250, models.Offer{Type: models.ResourceFood, Quantity: 1}))
	assert.Zero(t, s.DistanceScore)
	assert.InDelta(t, 6.0, s.CombinedScore, 1e-9) // 0.6 * 10
}

func TestScoreZeroQuantityNeed(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceFood, Quantity: 0})
	s := Score(req, candidate(0, models.Offer{Type: models.ResourceFood, Quantity: 0}))
	assert.InDelta(t, 10.0, s.MatchScore, 1e-9)
	assert.True(t, s.CanFullyFulfill)
}

func TestRankHigherCoverageWinsAtEqualDistance(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceWater, Quantity: 100})
	low := candidate(30, models.Offer{Type: models.ResourceWater, Quantity: 20})
	high := candidate(30, models.Offer{Type: models.ResourceWater, Quantity: 100})
	low.Organization.Name = "low"
	high.Organization.Name = "high"

	ranked := Rank(req, []organizations.Candidate{low, high})
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Organization.Name)
	assert.Greater(t, ranked[0].CombinedScore, ranked[1].CombinedScore)
}

func TestRankStableOnTies(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceFood, Quantity: 10})
	a := candidate(10, models.Offer{Type: models.ResourceFood, Quantity: 10})
	b := candidate(10, models.Offer{Type: models.ResourceFood, Quantity: 10})
	a.Organization.Name = "first"
	b.Organization.Name = "second"

	ranked := Rank(req, []organizations.Candidate{a, b})
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Organization.Name)
}

func TestCombinedScoreRounding(t *testing.T) {
	req := newRequest(models.Need{Type: models.ResourceFood, Quantity: 3})
	// offer 1/3 -> matchScore 3.333..., distance 7.5 km -> 0.4*92.5 + 0.6*3.333 = 39.0
	s := Score(req, candidate(7.5, models.Offer{Type: models.ResourceFood, Quantity: 1}))
	assert.InDelta(t, 39.0, s.CombinedScore, 1e-9)
}
