package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smartclean-api/internal/dto"
	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/response"
)

type onboardingService interface {
	Steps() dto.OnboardingStepsResponse
	ValidateStep(ctx context.Context, req models.OnboardingValidateRequest) (*dto.OnboardingValidateResponse, error)
	Navigate(ctx context.Context, req models.OnboardingNavigateRequest) (*models.OnboardingProgress, error)
	Submit(ctx context.Context, form models.OnboardingForm) (*dto.OnboardingSubmitResponse, error)
}

// OnboardingHandler exposes the provider onboarding wizard.
type OnboardingHandler struct {
	service onboardingService
}

// NewOnboardingHandler constructs an OnboardingHandler.
func NewOnboardingHandler(svc onboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: svc}
}

// Steps godoc
// @Summary Onboarding steps
// @Description Step titles and the blank form
// @Tags Onboarding
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /onboarding/steps [get]
func (h *OnboardingHandler) Steps(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Steps(), nil)
}

// Validate godoc
// @Summary Validate one step
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param payload body models.OnboardingValidateRequest true "Form and step"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /onboarding/validate [post]
func (h *OnboardingHandler) Validate(c *gin.Context) {
	var req models.OnboardingValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid onboarding payload"))
		return
	}

	res, err := h.service.ValidateStep(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Navigate godoc
// @Summary Move between steps
// @Description Forward moves are refused while the current step has issues
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param payload body models.OnboardingNavigateRequest true "Navigation request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /onboarding/navigate [post]
func (h *OnboardingHandler) Navigate(c *gin.Context) {
	var req models.OnboardingNavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid onboarding payload"))
		return
	}

	res, err := h.service.Navigate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Submit godoc
// @Summary Submit an onboarding application
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param payload body models.OnboardingForm true "Complete form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /onboarding [post]
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var form models.OnboardingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid onboarding payload"))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
