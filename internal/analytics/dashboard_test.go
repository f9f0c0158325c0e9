package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieflink/backend/internal/models"
)

func point(lat, lng float64) *models.Location {
	return &models.Location{
		Type:        "Point",
		Coordinates: json.RawMessage(fmt.Sprintf("[%g, %g]", lng, lat)),
	}
}

func activeRequest(id int64, needs ...models.Need) *models.Request {
	return &models.Request{
		ID:       id,
		Status:   models.RequestTriaged,
		Location: point(27.7, 85.3),
		Priority: models.PriorityLow,
		Needs:    needs,
	}
}

func eligibleOrg(name string, offers ...models.Offer) *models.Organization {
	return &models.Organization{
		Name:               name,
		VerificationStatus: models.VerificationVerified,
		Latitude:           27.7,
		Longitude:          85.3,
		Offers:             offers,
	}
}

func TestBuildSnapshotCoverageAndUnmetDemand(t *testing.T) {
	now := time.Now()
	active := []*models.Request{
		activeRequest(1000001, models.Need{Type: models.ResourceWater, Quantity: 100}),
	}
	orgs := []*models.Organization{
		eligibleOrg("aid", models.Offer{Type: models.ResourceWater, Quantity: 40}),
	}

	snap := BuildSnapshot(now, active, nil, orgs)

	water := snap.Resources[models.ResourceWater]
	assert.Equal(t, 100, water.Requested)
	assert.Equal(t, 40, water.Offered)
	assert.Equal(t, 60, water.UnmetDemand)
	assert.InDelta(t, 40.0, water.CoveragePct, 1e-9)
	assert.Contains(t, snap.Summary.LowCoverage, models.ResourceWater)

	// Nothing requested means full coverage.
	food := snap.Resources[models.ResourceFood]
	assert.Zero(t, food.Requested)
	assert.InDelta(t, 100.0, food.CoveragePct, 1e-9)
	assert.NotContains(t, snap.Summary.LowCoverage, models.ResourceFood)
}

func TestBuildSnapshotCoverageCap(t *testing.T) {
	active := []*models.Request{
		activeRequest(1000001, models.Need{Type: models.ResourceFood, Quantity: 10}),
	}
	orgs := []*models.Organization{
		eligibleOrg("aid", models.Offer{Type: models.ResourceFood, Quantity: 500}),
	}
	snap := BuildSnapshot(time.Now(), active, nil, orgs)
	food := snap.Resources[models.ResourceFood]
	assert.InDelta(t, 100.0, food.CoveragePct, 1e-9)
	assert.Zero(t, food.UnmetDemand)
}

func TestBuildSnapshotAssignedSplit(t *testing.T) {
	active := []*models.Request{
		activeRequest(1000001,
			models.Need{Type: models.ResourceFood, Quantity: 10, AssignmentStatus: models.NeedAssigned},
			models.Need{Type: models.ResourceFood, Quantity: 0},
		),
		activeRequest(1000002,
			models.Need{Type: models.ResourceFood, Quantity: 7, AssignmentStatus: models.NeedUnassigned},
		),
	}
	snap := BuildSnapshot(time.Now(), active, nil, nil)
	food := snap.Resources[models.ResourceFood]
	assert.Equal(t, 17, food.Requested)
	assert.Equal(t, 10, food.Assigned)
	assert.Equal(t, 7, food.Unassigned)
}

func TestBuildSnapshotShortfallProjection(t *testing.T) {
	// 30 units of need in the trailing 24h, 40 offered, 60 unmet.
	recent := []*models.Request{
		activeRequest(1000003, models.Need{Type: models.ResourceWater, Quantity: 30}),
	}
	active := []*models.Request{
		activeRequest(1000001, models.Need{Type: models.ResourceWater, Quantity: 100}),
	}
	orgs := []*models.Organization{
		eligibleOrg("aid", models.Offer{Type: models.ResourceWater, Quantity: 40}),
	}

	snap := BuildSnapshot(time.Now(), active, recent, orgs)
	require.Len(t, snap.Projections, 3)

	// max(0, r*h - offered + unmet): 30*1 - 40 + 60 = 50, then 80, 110.
	assert.Equal(t, 24, snap.Projections[0].HorizonHours)
	assert.InDelta(t, 50.0, snap.Projections[0].Projected, 1e-9)
	assert.InDelta(t, 80.0, snap.Projections[1].Projected, 1e-9)
	assert.InDelta(t, 110.0, snap.Projections[2].Projected, 1e-9)
}

func TestBuildSnapshotProjectionNeverNegative(t *testing.T) {
	orgs := []*models.Organization{
		eligibleOrg("aid", models.Offer{Type: models.ResourceWater, Quantity: 1000}),
	}
	snap := BuildSnapshot(time.Now(), nil, nil, orgs)
	for _, p := range snap.Projections {
		assert.GreaterOrEqual(t, p.Projected, 0.0)
	}
}

func TestBuildSnapshotHeatmap(t *testing.T) {
	mk := func(addr string) *models.Request {
		r := activeRequest(1000001, models.Need{Type: models.ResourceFood, Quantity: 2})
		r.Address = addr
		return r
	}
	active := []*models.Request{
		mk("Sindhupalchok, Ward 4"),
		mk("Sindhupalchok, Ward 7"),
		mk("Dolakha, Center"),
		mk(""),
	}
	snap := BuildSnapshot(time.Now(), active, nil, nil)

	require.NotEmpty(t, snap.Heatmap)
	assert.Equal(t, "Sindhupalchok", snap.Heatmap[0].Area)
	assert.Equal(t, 2, snap.Heatmap[0].Requests)
	assert.Equal(t, 4, snap.Heatmap[0].Needs[models.ResourceFood])

	areas := make(map[string]bool)
	for _, a := range snap.Heatmap {
		areas[a.Area] = true
	}
	assert.True(t, areas["Unknown"])
}

func TestBuildSnapshotHeatmapTopTen(t *testing.T) {
	var active []*models.Request
	for i := 0; i < 14; i++ {
		r := activeRequest(int64(1000001+i), models.Need{Type: models.ResourceFood, Quantity: 1})
		r.Address = fmt.Sprintf("Area-%d, somewhere", i)
		active = append(active, r)
	}
	snap := BuildSnapshot(time.Now(), active, nil, nil)
	assert.Len(t, snap.Heatmap, 10)
}

func TestBuildSnapshotMapLayersSkipInvalidCoordinates(t *testing.T) {
	valid := activeRequest(1000001, models.Need{Type: models.ResourceFood, Quantity: 1})
	invalid := activeRequest(1000002, models.Need{Type: models.ResourceFood, Quantity: 1})
	invalid.Location = nil

	noCoords := eligibleOrg("ghost")
	noCoords.Latitude, noCoords.Longitude = 0, 0

	snap := BuildSnapshot(time.Now(),
		[]*models.Request{valid, invalid}, nil,
		[]*models.Organization{eligibleOrg("aid"), noCoords})

	require.Len(t, snap.RequestPoints, 1)
	assert.Equal(t, int64(1000001), snap.RequestPoints[0].RequestID)
	require.Len(t, snap.OrganizationPoints, 1)
	assert.Equal(t, "aid", snap.OrganizationPoints[0].Name)
}

func TestBuildSnapshotSummary(t *testing.T) {
	sos := activeRequest(1000001, models.Need{Type: models.ResourceRescue, Quantity: 1})
	sos.IsSOS = true
	sos.Priority = models.PrioritySOS
	sos.Beneficiaries = models.Beneficiaries{Adults: 2, Children: 1, Elderly: 1}

	high := activeRequest(1000002, models.Need{Type: models.ResourceFood, Quantity: 5})
	high.Priority = models.PriorityHigh
	high.Beneficiaries = models.Beneficiaries{Adults: 3}

	snap := BuildSnapshot(time.Now(), []*models.Request{sos, high}, nil,
		[]*models.Organization{eligibleOrg("aid")})

	assert.Equal(t, 2, snap.Summary.ActiveRequests)
	assert.Equal(t, 1, snap.Summary.EligibleOrganizations)
	assert.Equal(t, 7, snap.Summary.TotalBeneficiaries)
	assert.Equal(t, 1, snap.Summary.SOSCount)
	assert.Equal(t, 1, snap.Summary.HighPriorityCount)
}

func TestBucketStats(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	reqs := []*models.Request{
		activeRequest(1000001,
			models.Need{Type: models.ResourceFood, Quantity: 10},
			models.Need{Type: models.ResourceWater, Quantity: 5}),
		activeRequest(1000002, models.Need{Type: models.ResourceFood, Quantity: 3}),
	}
	b := BucketStats(day, reqs)
	assert.Equal(t, "2026-08-20", b.Date)
	assert.Equal(t, 2, b.Requests)
	assert.Equal(t, 13, b.Needs[models.ResourceFood])
	assert.Equal(t, 5, b.Needs[models.ResourceWater])
}
