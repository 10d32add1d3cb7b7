package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/services"
	"github.com/mbtmi/mbtmi/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	credentialService services.CredentialService
	tokens            *auth.TokenManager
}

func NewAuthHandler(credentialService services.CredentialService, tokens *auth.TokenManager, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:       NewBaseHandler(logger),
		credentialService: credentialService,
		tokens:            tokens,
	}
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Register creates an account
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	user, err := h.credentialService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "User registered", "new_user_id", user.ID)
	c.JSON(http.StatusCreated, registerResponse{ID: user.ID, Username: user.Username})
}

// Login checks credentials and returns a bearer token
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	userID, err := h.credentialService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	token, err := h.tokens.Issue(userID, req.Username)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, services.LoginResponse{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.TTL()).UTC(),
	})
}
