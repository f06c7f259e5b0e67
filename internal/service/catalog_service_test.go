package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/repository"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
)

type fakeCatalogLoader struct {
	providers []models.Provider
	err       error
	calls     int
}

func (f *fakeCatalogLoader) Load(ctx context.Context) ([]models.Provider, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.providers, nil
}

func (f *fakeCatalogLoader) Source() string { return "fake" }

func loadedCatalogService(t *testing.T) (*CatalogService, *repository.CatalogRepository, *fakeCatalogLoader) {
	t.Helper()
	loader := &fakeCatalogLoader{providers: seedCatalog(t)}
	store := repository.NewCatalogRepository()
	svc := NewCatalogService(loader, store, NewMetricsService(), "", nil)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	return svc, store, loader
}

func TestCatalogServiceReloadInstallsVocabulary(t *testing.T) {
	svc, store, _ := loadedCatalogService(t)

	snapshot := store.Snapshot()
	assert.Equal(t, int64(1), snapshot.Version)
	assert.Equal(t, 6, snapshot.Len())
	assert.Equal(t, "Gigiri", snapshot.Vocabulary.Locations[0])
	assert.Same(t, snapshot, svc.Snapshot())
	assert.Equal(t, 6, svc.metrics.Snapshot().CatalogProviders)
}

func TestCatalogServiceReloadFailureKeepsSnapshot(t *testing.T) {
	svc, store, loader := loadedCatalogService(t)

	loader.err = errors.New("disk on fire")
	_, err := svc.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnavailable))
	assert.Equal(t, int64(1), store.Snapshot().Version)

	loader.err = nil
	loader.providers = []models.Provider{{ID: "x", Slug: "dup"}, {ID: "y", Slug: "dup"}}
	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 6, store.Snapshot().Len())
	assert.Equal(t, uint64(2), svc.metrics.Snapshot().CatalogReloadFailures)
}

func TestCatalogServiceStartValidatesSchedule(t *testing.T) {
	loader := &fakeCatalogLoader{}
	store := repository.NewCatalogRepository()

	disabled := NewCatalogService(loader, store, nil, "  ", nil)
	require.NoError(t, disabled.Start(context.Background()))
	disabled.Stop()

	bad := NewCatalogService(loader, store, nil, "every now and then", nil)
	require.Error(t, bad.Start(context.Background()))

	good := NewCatalogService(loader, store, nil, "@every 1h", nil)
	require.NoError(t, good.Start(context.Background()))
	require.NoError(t, good.Start(context.Background()))
	good.Stop()
	assert.Equal(t, 0, loader.calls)
}
