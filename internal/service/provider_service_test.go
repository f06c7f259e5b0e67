package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/export"
)

type failingCSV struct{}

func (failingCSV) Render(export.Dataset) ([]byte, error) { return nil, errors.New("disk full") }

func newProviderService(t *testing.T) *ProviderService {
	t.Helper()
	catalogSvc, _, _ := loadedCatalogService(t)
	return NewProviderService(catalogSvc, catalogSvc.metrics, nil, nil, nil)
}

func TestProviderServiceSearch(t *testing.T) {
	svc := newProviderService(t)
	criteria := models.DefaultCriteria()
	criteria.Location = strPtr("Lavington")

	search, err := svc.Search(context.Background(), criteria)
	require.NoError(t, err)
	assert.True(t, search.FiltersActive)
	assert.Equal(t, int64(1), search.CatalogVersion)
	assert.Equal(t, 3, search.Result.Stats.Count)
	assert.Equal(t, "SparklePro Cleaning", search.Result.Providers[0].Name)

	snapshot := svc.metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.SearchesTotal)
	assert.Equal(t, uint64(0), snapshot.EmptySearchesTotal)
}

func TestProviderServiceSearchHonoursContext(t *testing.T) {
	svc := newProviderService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, models.DefaultCriteria())
	require.ErrorIs(t, err, context.Canceled)
}

func TestProviderServiceFeatured(t *testing.T) {
	svc := newProviderService(t)

	featured, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Little Steps Nannies", "SparklePro Cleaning", "Elite Housekeeping Collective"}, names(featured))
}

func TestProviderServiceFilterOptions(t *testing.T) {
	svc := newProviderService(t)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts.PriceBrackets, 4)
	assert.Nil(t, opts.PriceBrackets[0].Max)
	require.NotNil(t, opts.PriceBrackets[2].Max)
	assert.Equal(t, 1800, *opts.PriceBrackets[2].Max)
	assert.Equal(t, 1801, opts.PriceBrackets[3].Min)
	assert.Nil(t, opts.PriceBrackets[3].Max)
	assert.Len(t, opts.RatingOptions, 3)
	assert.Len(t, opts.Locations, 11)
	assert.Equal(t, models.PriceAny, opts.Defaults.PriceBracket)
}

func TestProviderServiceGetBySlug(t *testing.T) {
	svc := newProviderService(t)

	profile, err := svc.GetBySlug(context.Background(), "sunrise-nanny-agency")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Nanny Agency in Kilimani | SmartClean", profile.Metadata.Title)
	assert.Equal(t, profile.Provider.About, profile.Metadata.Description)

	_, err = svc.GetBySlug(context.Background(), "unknown-slug")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrProviderNotFound))
	assert.Equal(t, "Provider not found | SmartClean", NotFoundMetadata().Title)
}

func TestProviderServiceExportCSV(t *testing.T) {
	svc := newProviderService(t)
	criteria := models.DefaultCriteria()
	criteria.PriceBracket = models.PriceUnder1500

	file, err := svc.Export(context.Background(), criteria, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "smartclean-providers.csv", file.Filename)
	assert.Equal(t, 2, file.Count)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Location,Rating,Reviews,Hourly rate,Min hours,Services,Availability", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `GreenLeaf Home Care,Lavington,4.7,96,"KES 1,300",3,`), lines[1])
}

func TestProviderServiceExportPDF(t *testing.T) {
	svc := newProviderService(t)

	file, err := svc.Export(context.Background(), models.DefaultCriteria(), export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
	assert.Equal(t, 6, file.Count)
}

func TestProviderServiceExportRenderFailure(t *testing.T) {
	catalogSvc, _, _ := loadedCatalogService(t)
	svc := NewProviderService(catalogSvc, nil, failingCSV{}, nil, nil)

	_, err := svc.Export(context.Background(), models.DefaultCriteria(), export.FormatCSV)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	_, err = svc.Export(context.Background(), models.DefaultCriteria(), export.Format("xlsx"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestFormatKES(t *testing.T) {
	assert.Equal(t, "KES 1,500", formatKES(1500))
	assert.Equal(t, "KES 950", formatKES(950))
	assert.Equal(t, "KES 12,000", formatKES(12000))
}
