package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains HTTP handlers for the /auth endpoints.
type AuthHandlers struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewAuthHandlers(users *services.UserService, tokens *services.TokenService) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

type registerRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	var name string
	if req.Name != nil {
		name = *req.Name
	}

	res, err := h.users.Register(c.Request.Context(), req.Email, req.Password, name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{User: NewUserView(res.User), Tokens: res.Tokens})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: NewUserView(res.User), Tokens: res.Tokens})
}

// Refresh handles POST /auth/refresh. The refresh token is verified against
// the refresh secret first; its subject is the owner the rotation must match.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithValidation(c, err)
		return
	}

	pair, err := h.tokens.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /auth/logout. Without a refreshToken in the body every
// session of the user is revoked.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithValidation(c, err)
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), c.GetString(ContextUserID), req.RefreshToken); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /auth/me.
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), c.GetString(ContextUserID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewUserView(user))
}
