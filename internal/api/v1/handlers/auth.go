package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medscribe/internal/api/errors"
	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
)

// AuthHandler handles registration, login and account endpoints.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Register handles POST /api/register
//
// @Summary Register a new account
// @Description Creates an account with a unique username and email. Passwords must be at least 12 characters and mix upper case, lower case, digits and special characters.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.UserResponse "Account created"
// @Failure 400 {object} errors.APIError "Validation error"
// @Failure 409 {object} errors.APIError "Email or username already in use"
// @Failure 429 {object} errors.APIError "Rate limit exceeded"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /api/token
//
// @Summary Log in
// @Description Verifies credentials and issues an access and refresh token pair. The username field also accepts the account email.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse "Token pair"
// @Failure 400 {object} errors.APIError "Missing email or password"
// @Failure 401 {object} errors.APIError "Invalid email or password"
// @Failure 429 {object} errors.APIError "Account temporarily locked"
// @Router /token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		middleware.HandleError(c, errors.NewBadRequestError("Missing email or password"))
		return
	}

	response, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh handles POST /api/refresh-token
//
// @Summary Refresh the access token
// @Description Exchanges a valid refresh token for a new access token. The refresh token itself is not rotated.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse "New access token"
// @Failure 400 {object} errors.APIError "Validation error"
// @Failure 401 {object} errors.APIError "Expired or invalid refresh token"
// @Router /refresh-token [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Refresh(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me handles GET /api/users/me
//
// @Summary Get the current user
// @Description Returns the authenticated user's own profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current profile"
// @Failure 401 {object} errors.APIError "Missing or invalid token"
// @Router /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)

	response := h.service.Profile(c.Request.Context(), user)
	c.JSON(http.StatusOK, response)
}

// ChangePassword handles PUT /api/users/me/password
//
// @Summary Change the current user's password
// @Description Verifies the current password and stores a new one that satisfies the password policy
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.MessageResponse "Password changed successfully"
// @Failure 400 {object} errors.APIError "Missing fields or weak new password"
// @Failure 401 {object} errors.APIError "Current password is incorrect"
// @Router /users/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		middleware.HandleError(c, errors.NewBadRequestError("Missing current_password or new_password"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), user, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}

// Ping handles GET /api/ping
//
// @Summary Authentication service liveness
// @Description Confirms the authentication service is reachable
// @Tags auth
// @Produce json
// @Success 200 {object} dto.PingResponse "Service is running"
// @Router /ping [get]
func (h *AuthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PingResponse{
		Status:  "ok",
		Message: "Authentication service is running",
	})
}
