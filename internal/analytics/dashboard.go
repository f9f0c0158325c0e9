// Package analytics aggregates live demand and supply into the crisis dashboard.
// All math is in-process over rows the repository fetched, so the computations are
// testable without a store.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/relieflink/backend/internal/models"
)

// ResourceStat is the demand/supply picture for one resource type.
type ResourceStat struct {
	Requested   int     `json:"requested"`
	Assigned    int     `json:"assigned"`
	Unassigned  int     `json:"unassigned"`
	Offered     int     `json:"offered"`
	UnmetDemand int     `json:"unmet_demand"`
	CoveragePct float64 `json:"coverage_pct"` // capped at 100; 100 when nothing is requested
}

// ShortfallProjection is the naive linear extrapolation of unmet demand at one
// horizon. The trailing-24h need rate is assumed representative; consumption of
// existing offers is ignored.
type ShortfallProjection struct {
	HorizonHours int     `json:"horizon_hours"`
	Projected    float64 `json:"projected_shortfall"`
}

// AreaSummary is one heatmap bucket, keyed by the leading token of the address.
type AreaSummary struct {
	Area       string                       `json:"area"`
	Requests   int                          `json:"requests"`
	Needs      map[models.ResourceType]int  `json:"needs"`
	Priorities map[models.Priority]int      `json:"priorities"`
}

// RequestPoint is a map-layer point for one active request.
type RequestPoint struct {
	RequestID int64           `json:"request_id"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Priority  models.Priority `json:"priority"`
	IsSOS     bool            `json:"is_sos"`
	Urgency   int             `json:"urgency"` // sos/high/medium/low -> 4/3/2/1
}

// OrganizationPoint is a map-layer point for one eligible organization.
type OrganizationPoint struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	TotalCapacity  int       `json:"total_capacity"`
}

// Summary holds the headline counters.
type Summary struct {
	ActiveRequests        int                   `json:"active_requests"`
	EligibleOrganizations int                   `json:"eligible_organizations"`
	TotalBeneficiaries    int                   `json:"total_beneficiaries"`
	SOSCount              int                   `json:"sos_count"`
	HighPriorityCount     int                   `json:"high_priority_count"`
	LowCoverage           []models.ResourceType `json:"low_coverage"` // coverage below 50%
}

// Snapshot is the full dashboard payload.
type Snapshot struct {
	GeneratedAt        time.Time                             `json:"generated_at"`
	Resources          map[models.ResourceType]ResourceStat  `json:"resources"`
	Projections        []ShortfallProjection                 `json:"projections"`
	Heatmap            []AreaSummary                         `json:"heatmap"`
	RequestPoints      []RequestPoint                        `json:"request_points"`
	OrganizationPoints []OrganizationPoint                   `json:"organization_points"`
	Summary            Summary                               `json:"summary"`
}

const (
	heatmapTopAreas      = 10
	lowCoverageThreshold = 50.0
)

var projectionHorizonsHours = []int{24, 48, 72}

// BuildSnapshot computes the dashboard from active (non-closed) requests and
// eligible organizations. recent holds the requests created in the trailing 24
// hours, used as the daily demand rate for shortfall projection.
func BuildSnapshot(now time.Time, active []*models.Request, recent []*models.Request, orgs []*models.Organization) Snapshot {
	snap := Snapshot{
		GeneratedAt: now,
		Resources:   make(map[models.ResourceType]ResourceStat, len(models.ResourceTypes)),
	}

	// Per-type demand from active requests.
	for _, t := range models.ResourceTypes {
		snap.Resources[t] = ResourceStat{}
	}
	for _, req := range active {
		for _, n := range req.Needs {
			stat := snap.Resources[n.Type]
			stat.Requested += n.Quantity
			if n.AssignmentStatus == models.NeedAssigned {
				stat.Assigned += n.Quantity
			} else {
				stat.Unassigned += n.Quantity
			}
			snap.Resources[n.Type] = stat
		}
	}

	// Per-type supply from eligible organizations.
	for _, org := range orgs {
		for _, offer := range org.Offers {
			stat := snap.Resources[offer.Type]
			stat.Offered += offer.Quantity
			snap.Resources[offer.Type] = stat
		}
	}

	totalOffered, totalUnmet := 0, 0
	for _, t := range models.ResourceTypes {
		stat := snap.Resources[t]
		stat.UnmetDemand = maxInt(0, stat.Requested-stat.Offered)
		if stat.Requested == 0 {
			stat.CoveragePct = 100
		} else {
			stat.CoveragePct = math.Min(100, 100*float64(stat.Offered)/float64(stat.Requested))
		}
		snap.Resources[t] = stat
		totalOffered += stat.Offered
		totalUnmet += stat.UnmetDemand
		if stat.CoveragePct < lowCoverageThreshold {
			snap.Summary.LowCoverage = append(snap.Summary.LowCoverage, t)
		}
	}

	// Shortfall projection from the trailing-24h need rate.
	dailyRate := 0
	for _, req := range recent {
		for _, n := range req.Needs {
			dailyRate += n.Quantity
		}
	}
	for _, hours := range projectionHorizonsHours {
		days := float64(hours) / 24
		projected := math.Max(0, float64(dailyRate)*days-float64(totalOffered)+float64(totalUnmet))
		snap.Projections = append(snap.Projections, ShortfallProjection{
			HorizonHours: hours,
			Projected:    projected,
		})
	}

	snap.Heatmap = buildHeatmap(active)
	snap.RequestPoints, snap.OrganizationPoints = buildMapLayers(active, orgs)

	snap.Summary.ActiveRequests = len(active)
	snap.Summary.EligibleOrganizations = len(orgs)
	for _, req := range active {
		snap.Summary.TotalBeneficiaries += req.Beneficiaries.Total()
		if req.IsSOS {
			snap.Summary.SOSCount++
		}
		if req.Priority == models.PriorityHigh {
			snap.Summary.HighPriorityCount++
		}
	}
	return snap
}

// buildHeatmap groups active requests by the first comma-delimited address token
// and returns the top areas by request count.
func buildHeatmap(active []*models.Request) []AreaSummary {
	byArea := make(map[string]*AreaSummary)
	var order []string
	for _, req := range active {
		area := areaOf(req.Address)
		s, ok := byArea[area]
		if !ok {
			s = &AreaSummary{
				Area:       area,
				Needs:      make(map[models.ResourceType]int),
				Priorities: make(map[models.Priority]int),
			}
			byArea[area] = s
			order = append(order, area)
		}
		s.Requests++
		s.Priorities[req.Priority]++
		for _, n := range req.Needs {
			s.Needs[n.Type] += n.Quantity
		}
	}

	out := make([]AreaSummary, 0, len(order))
	for _, area := range order {
		out = append(out, *byArea[area])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Requests > out[j].Requests })
	if len(out) > heatmapTopAreas {
		out = out[:heatmapTopAreas]
	}
	return out
}

func areaOf(address string) string {
	area := address
	if idx := strings.Index(address, ","); idx >= 0 {
		area = address[:idx]
	}
	area = strings.TrimSpace(area)
	if area == "" {
		return "Unknown"
	}
	return area
}

// buildMapLayers emits per-request and per-organization points, skipping entities
// without valid coordinates.
func buildMapLayers(active []*models.Request, orgs []*models.Organization) ([]RequestPoint, []OrganizationPoint) {
	var reqPoints []RequestPoint
	for _, req := range active {
		lat, lng, ok := req.Location.Point()
		if !ok {
			continue
		}
		reqPoints = append(reqPoints, RequestPoint{
			RequestID: req.ID,
			Latitude:  lat,
			Longitude: lng,
			Priority:  req.Priority,
			IsSOS:     req.IsSOS,
			Urgency:   models.UrgencyScore(req.Priority, req.IsSOS),
		})
	}
	var orgPoints []OrganizationPoint
	for _, org := range orgs {
		if !org.HasCoordinates() {
			continue
		}
		orgPoints = append(orgPoints, OrganizationPoint{
			OrganizationID: org.ID,
			Name:           org.Name,
			Latitude:       org.Latitude,
			Longitude:      org.Longitude,
			TotalCapacity:  org.TotalCapacity(),
		})
	}
	return reqPoints, orgPoints
}

// TrendBucket is one day of request intake.
type TrendBucket struct {
	Date     string                      `json:"date"` // YYYY-MM-DD
	Requests int                         `json:"requests"`
	Needs    map[models.ResourceType]int `json:"needs"`
}

// BucketStats aggregates one day's requests into a trend bucket.
func BucketStats(date time.Time, reqs []*models.Request) TrendBucket {
	b := TrendBucket{
		Date:  date.Format("2006-01-02"),
		Needs: make(map[models.ResourceType]int),
	}
	b.Requests = len(reqs)
	for _, req := range reqs {
		for _, n := range req.Needs {
			b.Needs[n.Type] += n.Quantity
		}
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
