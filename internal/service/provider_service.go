package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/smartclean-api/internal/dto"
	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/export"
)

const (
	exportTitle        = "SmartClean providers"
	exportBaseName     = "smartclean-providers"
	siteName           = "SmartClean"
	notFoundPageTitle  = "Provider not found | " + siteName
	notFoundPageDetail = "The provider you are looking for is no longer listed."
)

var exportHeaders = []string{"Name", "Location", "Rating", "Reviews", "Hourly rate", "Min hours", "Services", "Availability"}

type catalogReader interface {
	Snapshot() *models.Catalog
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ProviderService answers directory queries against the active catalog snapshot.
type ProviderService struct {
	catalog catalogReader
	metrics *MetricsService
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewProviderService constructs a ProviderService.
func NewProviderService(catalog catalogReader, metrics *MetricsService, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ProviderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ProviderService{catalog: catalog, metrics: metrics, csv: csv, pdf: pdf, logger: logger}
}

// Search filters and ranks the catalog.
func (s *ProviderService) Search(ctx context.Context, criteria models.Criteria) (*dto.ProviderSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := s.catalog.Snapshot()
	providers, stats := FilterProviders(snapshot.Providers, criteria)
	active := criteria.Active()
	s.metrics.ObserveSearch(active, len(providers))

	return &dto.ProviderSearch{
		Result:         dto.ProviderSearchResponse{Providers: providers, Stats: stats},
		Criteria:       criteria,
		FiltersActive:  active,
		CatalogVersion: snapshot.Version,
	}, nil
}

// Featured returns the top-rated providers of the whole catalog.
func (s *ProviderService) Featured(ctx context.Context) ([]models.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FeaturedProviders(s.catalog.Snapshot().Providers, FeaturedCount), nil
}

// FilterOptions returns the vocabulary and fixed option tables for the search controls.
func (s *ProviderService) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot := s.catalog.Snapshot()

	brackets := make([]dto.PriceBracketOption, 0, len(models.PriceBrackets))
	for _, b := range models.PriceBrackets {
		opt := dto.PriceBracketOption{Value: b.Key, Label: b.Label, Min: int(b.Min)}
		if !b.Open() {
			max := int(b.Max)
			opt.Max = &max
		}
		brackets = append(brackets, opt)
	}

	return &dto.FilterOptionsResponse{
		Locations:        snapshot.Vocabulary.Locations,
		Services:         snapshot.Vocabulary.Services,
		AvailabilityTags: snapshot.Vocabulary.AvailabilityTags,
		PriceBrackets:    brackets,
		RatingOptions:    append([]models.RatingOption(nil), models.RatingOptions...),
		Defaults:         models.DefaultCriteria(),
		CatalogVersion:   snapshot.Version,
	}, nil
}

// GetBySlug returns a provider profile with its page metadata.
func (s *ProviderService) GetBySlug(ctx context.Context, slug string) (*dto.ProviderProfileResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	provider, ok := s.catalog.Snapshot().FindBySlug(strings.TrimSpace(slug))
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrProviderNotFound, "")
	}
	return &dto.ProviderProfileResponse{
		Provider: provider,
		Metadata: ProfileMetadata(provider),
	}, nil
}

// ProfileMetadata builds the page title and description for a provider profile.
func ProfileMetadata(p models.Provider) dto.PageMetadata {
	return dto.PageMetadata{
		Title:       fmt.Sprintf("%s in %s | %s", p.Name, p.Location, siteName),
		Description: p.About,
	}
}

// NotFoundMetadata is the page metadata for an unknown provider slug.
func NotFoundMetadata() dto.PageMetadata {
	return dto.PageMetadata{Title: notFoundPageTitle, Description: notFoundPageDetail}
}

// Export renders the search result for criteria in the requested format.
func (s *ProviderService) Export(ctx context.Context, criteria models.Criteria, format export.Format) (*dto.ExportFile, error) {
	search, err := s.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	dataset := providerDataset(search.Result.Providers)

	var body []byte
	switch format {
	case export.FormatCSV:
		body, err = s.csv.Render(dataset)
	case export.FormatPDF:
		body, err = s.pdf.Render(dataset, exportTitle)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("provider export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &dto.ExportFile{
		Filename:    format.Filename(exportBaseName),
		ContentType: format.ContentType(),
		Body:        body,
		Count:       len(search.Result.Providers),
	}, nil
}

func providerDataset(providers []models.Provider) export.Dataset {
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		rows = append(rows, []string{
			p.Name,
			p.Location,
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.ReviewCount),
			formatKES(p.HourlyRate),
			strconv.Itoa(p.MinBookingHours),
			strings.Join(p.ServiceTypes, ", "),
			strings.Join(p.AvailabilityTags, ", "),
		})
	}
	return export.Dataset{
		Headers: exportHeaders,
		Rows:    rows,
		Widths:  []float64{2.2, 1.2, 0.7, 0.8, 1.1, 0.8, 3.2, 2},
	}
}

// formatKES renders a whole-shilling amount with thousands separators ("KES 1,500").
func formatKES(amount int) string {
	return message.NewPrinter(language.English).Sprintf("KES %d", amount)
}
