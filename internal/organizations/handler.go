package organizations

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// OfferInput is one declared capacity line in a request body.
type OfferInput struct {
	Type     models.ResourceType `json:"type" binding:"required"`
	Quantity int                 `json:"quantity"`
}

// CreateOrganizationRequest is the body for POST /organizations.
type CreateOrganizationRequest struct {
	Name         string       `json:"name" binding:"required"`
	ContactPhone string       `json:"contact_phone"`
	Latitude     float64      `json:"latitude" binding:"required"`
	Longitude    float64      `json:"longitude" binding:"required"`
	Address      string       `json:"address"`
	Offers       []OfferInput `json:"offers"`
}

func validateOffers(in []OfferInput) ([]models.Offer, string) {
	offers := make([]models.Offer, 0, len(in))
	for _, o := range in {
		if !models.ValidResourceType(o.Type) {
			return nil, "unknown resource type: " + string(o.Type)
		}
		if o.Quantity < 0 {
			return nil, "offer quantity must be >= 0"
		}
		offers = append(offers, models.Offer{Type: o.Type, Quantity: o.Quantity})
	}
	return offers, ""
}

// Create handles POST /organizations. New organizations start verification pending.
func (h *Handler) Create(c *gin.Context) {
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		response.BadRequest(c, "name required")
		return
	}
	if body.Latitude < -90 || body.Latitude > 90 || body.Longitude < -180 || body.Longitude > 180 {
		response.BadRequest(c, "invalid coordinates")
		return
	}
	offers, errMsg := validateOffers(body.Offers)
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}
	org := &models.Organization{
		Name:         body.Name,
		ContactPhone: body.ContactPhone,
		Latitude:     body.Latitude,
		Longitude:    body.Longitude,
		Address:      body.Address,
		Offers:       offers,
	}
	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// List handles GET /organizations.
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, orgs)
}

// GetByID handles GET /organizations/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load organization")
		return
	}
	response.OK(c, org)
}

// UpdateVerificationRequest is the body for PATCH /organizations/:id/verification.
type UpdateVerificationRequest struct {
	Status models.VerificationStatus `json:"status" binding:"required"`
}

// UpdateVerification handles PATCH /organizations/:id/verification. Admin only.
func (h *Handler) UpdateVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var body UpdateVerificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	if !models.ValidVerificationStatus(body.Status) {
		response.BadRequest(c, "unknown verification status: "+string(body.Status))
		return
	}
	org, err := h.repo.UpdateVerification(c.Request.Context(), id, body.Status)
	if err != nil {
		response.FromError(c, err, "failed to update verification")
		return
	}
	response.OK(c, org)
}

// UpdateSuspendedRequest is the body for PATCH /organizations/:id/suspend.
type UpdateSuspendedRequest struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

// UpdateSuspended handles PATCH /organizations/:id/suspend. Admin only.
func (h *Handler) UpdateSuspended(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var body UpdateSuspendedRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Suspended == nil {
		response.BadRequest(c, "suspended required")
		return
	}
	org, err := h.repo.UpdateSuspended(c.Request.Context(), id, *body.Suspended)
	if err != nil {
		response.FromError(c, err, "failed to update suspension")
		return
	}
	response.OK(c, org)
}

// UpdateOffersRequest is the body for PUT /organizations/:id/offers.
type UpdateOffersRequest struct {
	Offers []OfferInput `json:"offers" binding:"required"`
}

// UpdateOffers handles PUT /organizations/:id/offers, replacing declared capacity.
func (h *Handler) UpdateOffers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var body UpdateOffersRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "offers required")
		return
	}
	offers, errMsg := validateOffers(body.Offers)
	if errMsg != "" {
		response.BadRequest(c, errMsg)
		return
	}
	org, err := h.repo.UpdateOffers(c.Request.Context(), id, offers)
	if err != nil {
		response.FromError(c, err, "failed to update offers")
		return
	}
	response.OK(c, org)
}
