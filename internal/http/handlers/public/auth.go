package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/malcolmm20/farmlink/internal/http/handlers/shared"
	"github.com/malcolmm20/farmlink/internal/http/response"
	"github.com/malcolmm20/farmlink/internal/models"
	"github.com/malcolmm20/farmlink/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse returns the account plus its session token.
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Register creates an account and opens a session.
func (h *Handler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid registration payload")
		return
	}

	user, token, expiresAt, err := h.AuthService.Register(input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.Created(c, AuthResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid login payload")
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredential) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		shared.RespondError(c, http.StatusInternalServerError, "internal server error", err)
		return
	}
	response.OK(c, AuthResponse{User: user, Token: token, ExpiresAt: expiresAt})
}

// Me returns the current account.
func (h *Handler) Me(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.Get(uid)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, user)
}

// UpdateMe patches the current account, including farm setup for
// farmer accounts.
func (h *Handler) UpdateMe(c *gin.Context) {
	uid, ok := shared.CurrentUserID(c)
	if !ok {
		return
	}
	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid profile payload")
		return
	}
	// role changes are admin-only
	input.Role = nil

	user, err := h.UserService.Update(uid, input)
	if err != nil {
		respondWithMappedError(c, err, commonErrorRules)
		return
	}
	response.OK(c, user)
}
