package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
	"github.com/noah-isme/smartclean-api/pkg/events"
)

type catalogLoader interface {
	Load(ctx context.Context) ([]models.Provider, error)
	Source() string
}

type catalogStore interface {
	Snapshot() *models.Catalog
	Replace(providers []models.Provider, vocabulary models.Vocabulary) (*models.Catalog, error)
}

// CatalogService loads the provider catalog into the store and keeps it fresh on a cron schedule.
type CatalogService struct {
	loader   catalogLoader
	store    catalogStore
	metrics  *MetricsService
	events   eventSink
	logger   *zap.Logger
	schedule string

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCatalogService constructs a CatalogService. An empty schedule disables periodic reloads.
func NewCatalogService(loader catalogLoader, store catalogStore, metrics *MetricsService, schedule string, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		loader:   loader,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		schedule: strings.TrimSpace(schedule),
	}
}

// SetEventSink publishes a catalog.reloaded event after every successful reload.
func (s *CatalogService) SetEventSink(sink eventSink) {
	s.events = sink
}

// Reload reads the catalog from its source and installs it. On failure the active snapshot is
// left untouched.
func (s *CatalogService) Reload(ctx context.Context) (*models.Catalog, error) {
	source := s.loader.Source()
	providers, err := s.loader.Load(ctx)
	if err != nil {
		s.metrics.ObserveCatalogReload(source, nil, err)
		s.logger.Error("catalog load failed", zap.String("source", source), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load provider catalog")
	}

	catalog, err := s.store.Replace(providers, BuildVocabulary(providers))
	if err != nil {
		s.metrics.ObserveCatalogReload(source, nil, err)
		s.logger.Error("catalog rejected", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveCatalogReload(source, catalog, nil)
	s.logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("providers", catalog.Len()),
		zap.Int64("version", catalog.Version),
	)
	if s.events != nil {
		s.events.Publish(ctx, events.TypeCatalogReloaded, fmt.Sprintf("catalog-%d", catalog.Version), map[string]interface{}{
			"source":    source,
			"providers": catalog.Len(),
			"version":   catalog.Version,
		})
	}
	return catalog, nil
}

// Start schedules periodic reloads. It is a no-op without a schedule.
func (s *CatalogService) Start(ctx context.Context) error {
	if s.schedule == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(s.logger.Named("cron")))),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.Reload(ctx); err != nil {
			s.logger.Warn("scheduled catalog reload failed; keeping previous snapshot", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule catalog reload %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("catalog reload scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running reload to finish.
func (s *CatalogService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("catalog reload stopped")
}

// Snapshot exposes the active catalog.
func (s *CatalogService) Snapshot() *models.Catalog {
	return s.store.Snapshot()
}
