package analytics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relieflink/backend/pkg/response"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 90
)

// Handler handles the dashboard endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an analytics handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetDashboard handles GET /dashboard: a pure read-aggregation over all active
// requests and eligible organizations.
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	active, err := h.repo.ActiveRequests(ctx)
	if err != nil {
		response.Internal(c, "failed to load requests")
		return
	}
	orgs, err := h.repo.EligibleOrganizations(ctx)
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	recent, err := h.repo.RequestsCreatedBetween(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		response.Internal(c, "failed to load recent requests")
		return
	}

	response.OK(c, BuildSnapshot(now, active, recent, orgs))
}

// GetTrends handles GET /dashboard/trends?days=. Buckets request counts and
// per-type need totals per day over the trailing window, one store query per day.
func (h *Handler) GetTrends(c *gin.Context) {
	days := defaultTrendDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(c, "days must be a positive integer")
			return
		}
		days = n
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	ctx := c.Request.Context()
	today := time.Now().Truncate(24 * time.Hour)
	buckets := make([]TrendBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		reqs, err := h.repo.RequestsCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			response.Internal(c, "failed to load trend data")
			return
		}
		buckets = append(buckets, BucketStats(day, reqs))
	}

	response.OK(c, gin.H{"days": days, "buckets": buckets})
}
