package requests

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/internal/notify"
	"github.com/relieflink/backend/internal/realtime"
	"github.com/relieflink/backend/internal/sequence"
	"github.com/relieflink/backend/internal/triage"
	"github.com/relieflink/backend/pkg/response"
)

// Handler handles request intake and request HTTP endpoints.
type Handler struct {
	repo       *Repository
	allocator  *sequence.Allocator
	classifier triage.Classifier
	notifier   *notify.Notifier
	hub        *realtime.Hub
	logger     *zap.Logger
}

// NewHandler creates a requests handler.
func NewHandler(repo *Repository, allocator *sequence.Allocator, classifier triage.Classifier,
	notifier *notify.Notifier, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:       repo,
		allocator:  allocator,
		classifier: classifier,
		notifier:   notifier,
		hub:        hub,
		logger:     logger,
	}
}

// NeedInput is one declared need in the intake body.
type NeedInput struct {
	Type     models.ResourceType `json:"type" binding:"required"`
	Quantity int                 `json:"quantity"`
}

// CreateRequestRequest is the body for POST /requests.
type CreateRequestRequest struct {
	ContactName   string               `json:"contact_name" binding:"required"`
	ContactPhone  string               `json:"contact_phone" binding:"required"`
	Location      *models.Location     `json:"location" binding:"required"`
	Address       string               `json:"address"`
	SpecialNeeds  string               `json:"special_needs"`
	Needs         []NeedInput          `json:"needs" binding:"required"`
	Beneficiaries models.Beneficiaries `json:"beneficiaries"`
	Priority      models.Priority      `json:"priority"` // optional; triage fills it in
}

func (b *CreateRequestRequest) validate() string {
	if !b.Location.Valid() {
		return "location must be a valid GeoJSON point or polygon"
	}
	if len(b.Needs) == 0 {
		return "at least one need is required"
	}
	for _, n := range b.Needs {
		if !models.ValidResourceType(n.Type) {
			return "unknown resource type: " + string(n.Type)
		}
		if n.Quantity < 0 {
			return "need quantity must be >= 0"
		}
	}
	if b.Priority != "" && !models.ValidPriority(b.Priority) {
		return "unknown priority: " + string(b.Priority)
	}
	if b.Beneficiaries.Adults < 0 || b.Beneficiaries.Children < 0 || b.Beneficiaries.Elderly < 0 {
		return "beneficiary counts must be >= 0"
	}
	return ""
}

// Create handles POST /requests: allocate a sequence ID, triage, persist the
// request with its decomposed components, then notify and broadcast. Notification
// and broadcast failures never roll back the persisted request.
func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := body.validate(); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	ctx := c.Request.Context()
	id, err := h.allocator.NextID(ctx, sequence.CounterRequestID)
	if err != nil {
		h.logger.Error("sequence allocation failed", zap.Error(err))
		response.Internal(c, "failed to allocate request id")
		return
	}

	result := h.classifier.Classify(triage.Draft{
		Priority:     body.Priority,
		SpecialNeeds: body.SpecialNeeds,
		Address:      body.Address,
	})

	needs := make([]models.Need, 0, len(body.Needs))
	for _, n := range body.Needs {
		needs = append(needs, models.Need{
			Type:             n.Type,
			Quantity:         n.Quantity,
			AssignmentStatus: models.NeedUnassigned,
		})
	}

	req := &models.Request{
		ID:            id,
		Status:        models.RequestTriaged,
		ContactName:   strings.TrimSpace(body.ContactName),
		ContactPhone:  strings.TrimSpace(body.ContactPhone),
		Location:      body.Location,
		Address:       body.Address,
		SpecialNeeds:  body.SpecialNeeds,
		Needs:         needs,
		Beneficiaries: body.Beneficiaries,
		Priority:      result.Priority,
		IsSOS:         result.IsSOS,
	}
	if err := h.repo.Create(ctx, req); err != nil {
		h.logger.Error("create request failed", zap.Error(err), zap.Int64("request_id", id))
		response.Internal(c, "failed to create request")
		return
	}

	h.notifier.RequestStatusChanged(ctx, req)
	h.hub.Broadcast(realtime.EventRequestCreated, req)
	if req.IsSOS {
		h.hub.Broadcast(realtime.EventRequestSOS, req)
	}
	response.Created(c, req)
}

// GetByID handles GET /requests/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	req, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load request")
		return
	}
	response.OK(c, req)
}

// List handles GET /requests?status=.
func (h *Handler) List(c *gin.Context) {
	status := models.RequestStatus(c.Query("status"))
	if status != "" {
		switch status {
		case models.RequestNew, models.RequestTriaged, models.RequestInProgress, models.RequestClosed:
		default:
			response.BadRequest(c, "unknown status: "+string(status))
			return
		}
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to load requests")
		return
	}
	response.OK(c, list)
}

// ListComponents handles GET /requests/:id/components.
func (h *Handler) ListComponents(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.FromError(c, err, "failed to load request")
		return
	}
	components, err := h.repo.ListComponents(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load components")
		return
	}
	response.OK(c, components)
}

// UpdateNeedRequest is the body for PATCH /requests/:id/needs/:index.
type UpdateNeedRequest struct {
	Type     models.ResourceType `json:"type"`
	Quantity *int                `json:"quantity"`
}

// UpdateNeed handles PATCH /requests/:id/needs/:index. Assigned needs are immutable.
func (h *Handler) UpdateNeed(c *gin.Context) {
	req, index, ok := h.requestAndIndex(c)
	if !ok {
		return
	}
	if err := req.CanEditNeed(index); err != nil {
		response.FromError(c, err, "failed to update need")
		return
	}
	var body UpdateNeedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if body.Type != "" {
		if !models.ValidResourceType(body.Type) {
			response.BadRequest(c, "unknown resource type: "+string(body.Type))
			return
		}
		req.Needs[index].Type = body.Type
	}
	if body.Quantity != nil {
		if *body.Quantity < 0 {
			response.BadRequest(c, "need quantity must be >= 0")
			return
		}
		req.Needs[index].Quantity = *body.Quantity
	}
	if err := h.repo.UpdateNeeds(c.Request.Context(), req.ID, req.Needs); err != nil {
		response.FromError(c, err, "failed to update need")
		return
	}
	response.OK(c, req)
}

// DeleteNeed handles DELETE /requests/:id/needs/:index. The last need cannot be
// removed and assigned needs are immutable.
func (h *Handler) DeleteNeed(c *gin.Context) {
	req, index, ok := h.requestAndIndex(c)
	if !ok {
		return
	}
	if err := req.CanDeleteNeed(index); err != nil {
		response.FromError(c, err, "failed to delete need")
		return
	}
	req.Needs = append(req.Needs[:index], req.Needs[index+1:]...)
	if err := h.repo.UpdateNeeds(c.Request.Context(), req.ID, req.Needs); err != nil {
		response.FromError(c, err, "failed to delete need")
		return
	}
	response.OK(c, req)
}

func (h *Handler) requestAndIndex(c *gin.Context) (*models.Request, int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return nil, 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid need index")
		return nil, 0, false
	}
	req, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load request")
		return nil, 0, false
	}
	return req, index, true
}
