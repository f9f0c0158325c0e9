package matching

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/relieflink/backend/config"
	"github.com/relieflink/backend/internal/requests"
	"github.com/relieflink/backend/pkg/response"
)

// Handler handles GET /requests/:id/matches.
type Handler struct {
	matcher *Matcher
	reqRepo *requests.Repository
	cfg     config.MatchingConfig
}

// NewHandler creates a matching handler.
func NewHandler(matcher *Matcher, reqRepo *requests.Repository, cfg config.MatchingConfig) *Handler {
	return &Handler{matcher: matcher, reqRepo: reqRepo, cfg: cfg}
}

// FindMatches handles GET /requests/:id/matches?max_distance_km=&limit=.
// Defaults and hard caps come from config.
func (h *Handler) FindMatches(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}

	radius := h.cfg.DefaultRadiusKm
	if v := c.Query("max_distance_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			response.BadRequest(c, "max_distance_km must be a positive number")
			return
		}
		radius = r
	}
	if radius > h.cfg.MaxRadiusKm {
		radius = h.cfg.MaxRadiusKm
	}

	limit := h.cfg.DefaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}

	req, err := h.reqRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load request")
		return
	}

	matches, err := h.matcher.FindMatches(c.Request.Context(), req, radius, limit)
	if err != nil {
		response.FromError(c, err, "failed to find matches")
		return
	}
	response.OK(c, gin.H{
		"request_id":      req.ID,
		"max_distance_km": radius,
		"count":           len(matches),
		"matches":         matches,
	})
}
