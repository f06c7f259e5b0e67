package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smartclean-api/internal/dto"
	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/repository"
	"github.com/noah-isme/smartclean-api/internal/service"
)

func stepsRouter(h *OnboardingHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/onboarding/steps", h.Steps)
	return r
}

func newOnboardingHandler() *OnboardingHandler {
	return NewOnboardingHandler(service.NewOnboardingService(repository.NewMemoryOnboardingRepository(), nil, nil, nil))
}

func TestOnboardingHandlerNavigateBlocksForward(t *testing.T) {
	h := newOnboardingHandler()

	w := postJSON(t, h.Navigate, models.OnboardingNavigateRequest{Form: service.InitialOnboardingForm(), CurrentStep: 0, TargetStep: 1})
	require.Equal(t, http.StatusOK, w.Code)
	var progress models.OnboardingProgress
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &progress))
	assert.Equal(t, 0, progress.Step)
	assert.NotEmpty(t, progress.Issues)
}

func TestOnboardingHandlerValidate(t *testing.T) {
	h := newOnboardingHandler()

	w := postJSON(t, h.Validate, models.OnboardingValidateRequest{Form: service.InitialOnboardingForm(), Step: 2})
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.OnboardingValidateResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.False(t, res.Valid)
	assert.Len(t, res.Issues, 2)

	assert.Equal(t, http.StatusBadRequest, postJSON(t, h.Validate, models.OnboardingValidateRequest{Step: 3}).Code)
}

func TestOnboardingHandlerSubmit(t *testing.T) {
	h := newOnboardingHandler()
	form := service.InitialOnboardingForm()
	form.FullName = "Wanjiru Kamau"
	form.BusinessName = "Fresh Nest Cleaners"
	form.Email = "hello@freshnest.co.ke"
	form.Phone = "+254 700 111 222"
	form.PrimaryLocation = "Westlands"
	form.ServiceAreas = []string{"Parklands"}
	form.ServicesOffered = []string{"Deep cleaning"}
	form.ExperienceYears = "6"
	form.HourlyRate = "1500"
	form.Certifications = "None"
	form.Availability = []string{"Weekdays"}
	form.Bio = "Small team, big on detail."

	w := postJSON(t, h.Submit, form)
	require.Equal(t, http.StatusCreated, w.Code)
	var res dto.OnboardingSubmitResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Equal(t, 100, res.Progress.Progress)
	assert.Equal(t, models.OnboardingStatusPendingReview, res.Application.Status)

	assert.Equal(t, http.StatusConflict, postJSON(t, h.Submit, form).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, h.Submit, service.InitialOnboardingForm()).Code)
}

func TestOnboardingHandlerSteps(t *testing.T) {
	h := newOnboardingHandler()
	w := get(stepsRouter(h), "/onboarding/steps")
	require.Equal(t, http.StatusOK, w.Code)
	var res dto.OnboardingStepsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &res))
	assert.Len(t, res.Steps, 3)
}
