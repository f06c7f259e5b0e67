package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smartclean-api/internal/dto"
	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/service"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/export"
	"github.com/noah-isme/smartclean-api/pkg/response"
)

// anyOption is the value the search controls send for "no constraint".
const anyOption = "any"

type providerService interface {
	Search(ctx context.Context, criteria models.Criteria) (*dto.ProviderSearch, error)
	Featured(ctx context.Context) ([]models.Provider, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.ProviderProfileResponse, error)
	Export(ctx context.Context, criteria models.Criteria, format export.Format) (*dto.ExportFile, error)
}

// ProviderHandler exposes the provider directory.
type ProviderHandler struct {
	service providerService
}

// NewProviderHandler constructs a ProviderHandler.
func NewProviderHandler(svc providerService) *ProviderHandler {
	return &ProviderHandler{service: svc}
}

// Search godoc
// @Summary Search providers
// @Description Filters the provider catalog and ranks the matches by rating
// @Tags Providers
// @Produce json
// @Param q query string false "Free text matched against name, location, about, services and specialties"
// @Param location query string false "Primary location or zone served"
// @Param service query string false "Service type"
// @Param price query string false "Price bracket" Enums(any, under-1500, 1500-1800, 1800+)
// @Param rating query string false "Minimum rating" Enums(any, 4.5, 4.8)
// @Param availability query string false "Availability tag"
// @Param background_check query bool false "Only background-checked providers"
// @Param supplies_included query bool false "Only providers bringing supplies"
// @Success 200 {object} response.Envelope
// @Router /providers [get]
func (h *ProviderHandler) Search(c *gin.Context) {
	criteria := criteriaFromQuery(c)
	search, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := map[string]interface{}{
		"filters_active":  search.FiltersActive,
		"catalog_version": search.CatalogVersion,
	}
	if criteria.Location != nil {
		meta["location"] = *criteria.Location
	}
	response.JSON(c, http.StatusOK, search.Result, meta)
}

// Featured godoc
// @Summary Featured providers
// @Description Returns the three best-rated providers
// @Tags Providers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /providers/featured [get]
func (h *ProviderHandler) Featured(c *gin.Context) {
	providers, err := h.service.Featured(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, providers, nil)
}

// FilterOptions godoc
// @Summary Search control options
// @Description Locations, services, availability tags, price brackets and rating options
// @Tags Providers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /providers/filters [get]
func (h *ProviderHandler) FilterOptions(c *gin.Context) {
	options, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Get godoc
// @Summary Provider profile
// @Tags Providers
// @Produce json
// @Param slug path string true "Provider slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /providers/{slug} [get]
func (h *ProviderHandler) Get(c *gin.Context) {
	profile, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, appErrors.ErrProviderNotFound) {
			response.Error(c, err, map[string]interface{}{"metadata": service.NotFoundMetadata()})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Export godoc
// @Summary Export providers
// @Description Downloads the filtered provider list. Accepts the same filters as search.
// @Tags Providers
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "File format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /providers/export [get]
func (h *ProviderHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export format"))
		return
	}

	file, err := h.service.Export(c.Request.Context(), criteriaFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Result-Count", strconv.Itoa(file.Count))
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// criteriaFromQuery maps search query parameters onto criteria. Empty values and the "any"
// option leave a dimension unconstrained; malformed values fall back to no constraint.
func criteriaFromQuery(c *gin.Context) models.Criteria {
	criteria := models.DefaultCriteria()
	criteria.Query = strings.TrimSpace(c.Query("q"))
	criteria.Location = optionalParam(c.Query("location"))
	criteria.Service = optionalParam(c.Query("service"))
	criteria.Availability = optionalParam(c.Query("availability"))
	// An unencoded "1800+" arrives as "1800 ".
	if price := strings.TrimSpace(strings.ReplaceAll(c.Query("price"), " ", "+")); price != "" {
		criteria.PriceBracket = service.LookupBracket(price).Key
	}
	criteria.MinRating = service.ParseRatingOption(c.Query("rating"))
	criteria.RequireBackgroundCheck = boolParam(c.Query("background_check"))
	criteria.RequireSupplies = boolParam(c.Query("supplies_included"))
	return criteria
}

func optionalParam(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, anyOption) {
		return nil
	}
	return &value
}

func boolParam(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
