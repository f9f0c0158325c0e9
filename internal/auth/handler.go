package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/pkg/response"
	"github.com/relieflink/backend/pkg/utils"
)

// Handler handles login and registration.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // victim (default) or dispatcher; admins are seeded
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.RoleVictim
	switch models.Role(body.Role) {
	case "", models.RoleVictim:
	case models.RoleDispatcher:
		role = models.RoleDispatcher
	default:
		response.BadRequest(c, "role must be victim or dispatcher")
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	user, err := h.repo.Create(c.Request.Context(), email, hash, body.FullName, body.Phone, role)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			response.Conflict(c, "an account with this email already exists")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.Created(c, gin.H{"token": token, "user": user})
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email and password required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	user, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if !utils.CheckPassword(body.Password, user.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	token, err := h.jwt.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, gin.H{"token": token, "user": user})
}
