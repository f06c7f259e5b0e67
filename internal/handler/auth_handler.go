package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.Account, error)
	PasswordStrength(password string) models.PasswordInsight
}

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	VerifyMagicLink(ctx context.Context, req models.VerifyMagicLinkRequest) (*models.AccessTokenResponse, error)
	Me(ctx context.Context, claims *models.JWTClaims) (*models.Account, error)
}

// AuthHandler wires HTTP endpoints to registration and sign-in.
type AuthHandler struct {
	registration registrationService
	auth         authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(registration registrationService, auth authService) *AuthHandler {
	return &AuthHandler{registration: registration, auth: auth}
}

// Register godoc
// @Summary Create an account
// @Description Registers a client or provider account. Every form issue is listed in error.details.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	account, err := h.registration.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// PasswordStrength godoc
// @Summary Score a password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.PasswordStrengthRequest true "Candidate password"
// @Success 200 {object} response.Envelope
// @Router /auth/password-strength [post]
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req models.PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.registration.PasswordStrength(req.Password), nil)
}

// Login godoc
// @Summary Request a magic link
// @Description Checks email and password, then emails a one-time sign-in link
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, res)
}

// VerifyMagicLink godoc
// @Summary Redeem a magic link
// @Description Exchanges a magic-link token for an access token. Each link works once.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.VerifyMagicLinkRequest true "Magic link token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/magic-link/verify [post]
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req models.VerifyMagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid magic link payload"))
		return
	}

	res, err := h.auth.VerifyMagicLink(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Get current account
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	account, err := h.auth.Me(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account, nil)
}
