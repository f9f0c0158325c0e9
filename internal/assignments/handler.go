package assignments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relieflink/backend/internal/middleware"
	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/internal/notify"
	"github.com/relieflink/backend/internal/realtime"
	"github.com/relieflink/backend/internal/requests"
	"github.com/relieflink/backend/pkg/response"
)

// Handler handles assignment and component lifecycle endpoints.
type Handler struct {
	repo     *Repository
	reqRepo  *requests.Repository
	notifier *notify.Notifier
	hub      *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates an assignments handler.
func NewHandler(repo *Repository, reqRepo *requests.Repository,
	notifier *notify.Notifier, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, reqRepo: reqRepo, notifier: notifier, hub: hub, logger: logger}
}

// CreateAssignmentRequest is the body for POST /assignments.
type CreateAssignmentRequest struct {
	RequestID      int64     `json:"request_id" binding:"required"`
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Notes          string    `json:"notes"`
}

// Create handles POST /assignments. Fails 404 when the request does not exist and
// 409 when an active assignment already exists; on success the parent request
// advances to in_progress.
func (h *Handler) Create(c *gin.Context) {
	dispatcherID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var body CreateAssignmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "request_id and organization_id required")
		return
	}

	ctx := c.Request.Context()
	req, err := h.reqRepo.GetByID(ctx, body.RequestID)
	if err != nil {
		response.FromError(c, err, "failed to load request")
		return
	}

	a := &models.Assignment{
		RequestID:      body.RequestID,
		OrganizationID: body.OrganizationID,
		DispatcherID:   dispatcherID,
		Notes:          body.Notes,
	}
	if err := h.repo.Create(ctx, a); err != nil {
		response.FromError(c, err, "failed to create assignment")
		return
	}

	if err := h.reqRepo.UpdateStatus(ctx, req.ID, models.RequestInProgress); err != nil {
		h.logger.Error("request status cascade failed", zap.Error(err), zap.Int64("request_id", req.ID))
	} else {
		req.Status = models.RequestInProgress
		h.notifier.RequestStatusChanged(ctx, req)
	}
	h.hub.Broadcast(realtime.EventAssignmentCreated, a)
	response.Created(c, a)
}

// UpdateAssignmentStatusRequest is the body for PATCH /assignments/:id/status.
type UpdateAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /assignments/:id/status. Closing the assignment
// cascades the parent request to closed (the coarse closure path; the component
// cascade remains authoritative for component-tracked requests).
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment id")
		return
	}
	var body UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	if !models.ValidAssignmentStatus(body.Status) {
		response.BadRequest(c, "unknown status: "+string(body.Status))
		return
	}

	ctx := c.Request.Context()
	a, err := h.repo.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		response.FromError(c, err, "failed to update assignment")
		return
	}

	if a.Status == models.AssignmentClosed {
		h.closeRequest(c, a.RequestID)
	}
	h.hub.Broadcast(realtime.EventRequestStatus, a)
	response.OK(c, a)
}

// AssignComponentRequest is the body for POST /components/:id/assign.
type AssignComponentRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
}

// AssignComponent handles POST /components/:id/assign, binding a component to an
// organization and marking the matching need on the parent request.
func (h *Handler) AssignComponent(c *gin.Context) {
	dispatcherID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid component id")
		return
	}
	var body AssignComponentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "organization_id required")
		return
	}

	comp, err := h.reqRepo.AssignComponent(c.Request.Context(), id, body.OrganizationID, dispatcherID)
	if err != nil {
		response.FromError(c, err, "failed to assign component")
		return
	}
	h.hub.Broadcast(realtime.EventRequestStatus, comp)
	response.OK(c, comp)
}

// UpdateComponentStatusRequest is the body for PATCH /components/:id/status.
type UpdateComponentStatusRequest struct {
	Status models.ComponentStatus `json:"status" binding:"required"`
}

// UpdateComponentStatus handles PATCH /components/:id/status. Once every sibling
// component is delivered or closed, the parent request closes; this is the
// authoritative closure path and is idempotent under repeated updates.
func (h *Handler) UpdateComponentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid component id")
		return
	}
	var body UpdateComponentStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	if !models.ValidComponentStatus(body.Status) {
		response.BadRequest(c, "unknown status: "+string(body.Status))
		return
	}

	ctx := c.Request.Context()
	comp, requestClosed, err := h.reqRepo.UpdateComponentStatus(ctx, id, body.Status)
	if err != nil {
		response.FromError(c, err, "failed to update component")
		return
	}

	if requestClosed {
		if req, err := h.reqRepo.GetByID(ctx, comp.RequestID); err == nil {
			h.notifier.RequestStatusChanged(ctx, req)
			h.hub.Broadcast(realtime.EventRequestStatus, req)
		}
	}
	response.OK(c, gin.H{"component": comp, "request_closed": requestClosed})
}

// closeRequest cascades a request to closed, notifying on the actual transition
// only so repeated closes stay idempotent.
func (h *Handler) closeRequest(c *gin.Context, requestID int64) {
	ctx := c.Request.Context()
	transitioned, err := h.reqRepo.Close(ctx, requestID)
	if err != nil {
		h.logger.Error("request close cascade failed", zap.Error(err), zap.Int64("request_id", requestID))
		return
	}
	if !transitioned {
		return
	}
	if req, err := h.reqRepo.GetByID(ctx, requestID); err == nil {
		h.notifier.RequestStatusChanged(ctx, req)
		h.hub.Broadcast(realtime.EventRequestStatus, req)
	}
}
