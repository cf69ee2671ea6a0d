package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jansamadhan/backend/internal/auth"
	"github.com/jansamadhan/backend/internal/db"
	"github.com/jansamadhan/backend/internal/models"
)

type RegisterRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6,max=72"`
	FullName string `form:"full_name" validate:"required,max=200"`
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Token string `form:"token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	UserName    string `json:"user_name"`
}

// @Summary Register a citizen account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "email"
// @Param password formData string true "password"
// @Param full_name formData string true "full name"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} map[string]any
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindForm(c, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Failed to hash password", nil)
		return
	}
	user, err := h.Store.CreateUser(c.Request.Context(), models.User{
		Email:          strings.TrimSpace(req.Email),
		FullName:       strings.TrimSpace(req.FullName),
		Role:           models.RoleCitizen,
		HashedPassword: hash,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			writeError(c, http.StatusBadRequest, "EMAIL_TAKEN", "Email already registered", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create user", err.Error())
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// @Summary Log in with email and password
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "email"
// @Param password formData string true "password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]any
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindForm(c, &req) {
		return
	}

	user, err := h.Store.GetUserByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load user", err.Error())
		return
	}
	if err != nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// @Summary Log in with a Google ID token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param token formData string true "Google ID token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]any
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if !h.bindForm(c, &req) {
		return
	}

	identity, err := h.Google.Verify(c.Request.Context(), req.Token)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("google token verification failed")
		writeError(c, http.StatusBadRequest, "INVALID_GOOGLE_TOKEN", "Token verification failed", nil)
		return
	}
	user, err := h.Store.UpsertGoogleUser(c.Request.Context(), identity.Email, identity.Name)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to upsert user", err.Error())
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *Handler) bindForm(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user models.User) {
	token, err := h.Tokens.Issue(auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Failed to issue token", nil)
		return
	}
	c.JSON(status, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		UserName:    user.FullName,
	})
}
