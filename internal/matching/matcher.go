// Package matching ranks eligible organizations against a request's needs. The
// store narrows candidates to a radius; scoring itself is in-process so it can be
// exercised without a database.
package matching

import (
	"context"
	"math"
	"sort"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/internal/organizations"
)

const (
	distanceWeight = 0.4
	matchWeight    = 0.6
	pointsPerNeed  = 10.0
)

// MatchedNeed describes how one request need lines up against one organization's
// declared offer.
type MatchedNeed struct {
	Type        models.ResourceType `json:"type"`
	Requested   int                 `json:"requested"`
	Available   int                 `json:"available"`
	Fulfillable bool                `json:"fulfillable"` // offer alone covers the need
}

// ScoredOrganization is one ranked match result.
type ScoredOrganization struct {
	Organization        models.Organization `json:"organization"`
	DistanceKm          float64             `json:"distance_km"`
	MatchedNeeds        []MatchedNeed       `json:"matched_needs"`
	AvailableResources  []models.Offer      `json:"available_resources"`
	MatchScore          float64             `json:"match_score"`
	DistanceScore       float64             `json:"distance_score"`
	CombinedScore       float64             `json:"combined_score"`
	CanPartiallyFulfill bool                `json:"can_partially_fulfill"`
	CanFullyFulfill     bool                `json:"can_fully_fulfill"`
}

// Score rates one candidate against the request's needs. Each need with a matching
// offer contributes min(offer/needed, 1) x 10 points; distance contributes
// max(0, 100 - km), combined 40/60 and rounded to one decimal.
func Score(req *models.Request, c organizations.Candidate) ScoredOrganization {
	out := ScoredOrganization{
		Organization:       c.Organization,
		DistanceKm:         c.DistanceKm,
		AvailableResources: c.Organization.Offers,
	}

	fullyFulfillable := true
	for _, need := range req.Needs {
		offer, ok := c.Organization.OfferFor(need.Type)
		if !ok {
			fullyFulfillable = false
			continue
		}
		ratio := 1.0
		if need.Quantity > 0 {
			ratio = math.Min(float64(offer.Quantity)/float64(need.Quantity), 1)
		}
		out.MatchScore += ratio * pointsPerNeed
		fulfillable := offer.Quantity >= need.Quantity
		if !fulfillable {
			fullyFulfillable = false
		}
		out.MatchedNeeds = append(out.MatchedNeeds, MatchedNeed{
			Type:        need.Type,
			Requested:   need.Quantity,
			Available:   offer.Quantity,
			Fulfillable: fulfillable,
		})
	}

	out.DistanceScore = math.Max(0, 100-c.DistanceKm)
	out.CombinedScore = round1(distanceWeight*out.DistanceScore + matchWeight*out.MatchScore)
	out.CanPartiallyFulfill = len(out.MatchedNeeds) > 0
	out.CanFullyFulfill = len(out.MatchedNeeds) > 0 && fullyFulfillable
	return out
}

// Rank scores every candidate and sorts by combined score descending. The sort is
// stable, so ties keep the store's nearest-first order.
func Rank(req *models.Request, candidates []organizations.Candidate) []ScoredOrganization {
	results := make([]ScoredOrganization, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, Score(req, c))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})
	return results
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Matcher runs the full find-matches operation: radius query, then scoring.
type Matcher struct {
	orgs *organizations.Repository
}

// NewMatcher creates a matcher over the organizations repository.
func NewMatcher(orgs *organizations.Repository) *Matcher {
	return &Matcher{orgs: orgs}
}

// FindMatches returns ranked organizations within maxDistanceKm of the request's
// location, capped at limit nearest candidates. Fails with ErrInvalidLocation when
// the request has no usable coordinates.
func (m *Matcher) FindMatches(ctx context.Context, req *models.Request, maxDistanceKm float64, limit int) ([]ScoredOrganization, error) {
	lat, lng, ok := req.Location.Point()
	if !ok {
		return nil, models.ErrInvalidLocation
	}
	candidates, err := m.orgs.EligibleWithinRadius(ctx, lat, lng, maxDistanceKm, limit)
	if err != nil {
		return nil, err
	}
	return Rank(req, candidates), nil
}
