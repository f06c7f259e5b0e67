package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/smartclean-api/internal/models"
	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
)

// CatalogRepository holds the active provider catalog snapshot. Snapshots are immutable; a
// reload swaps the whole snapshot.
type CatalogRepository struct {
	mu      sync.RWMutex
	current *models.Catalog
	now     func() time.Time
}

// NewCatalogRepository constructs an empty catalog store.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		current: models.NewCatalog(nil, models.Vocabulary{}, 0, time.Time{}),
		now:     time.Now,
	}
}

// Snapshot returns the active catalog.
func (r *CatalogRepository) Snapshot() *models.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// FindBySlug looks a provider up in the active catalog.
func (r *CatalogRepository) FindBySlug(slug string) (models.Provider, bool) {
	return r.Snapshot().FindBySlug(slug)
}

// Replace validates providers and installs them as the active catalog. The previous snapshot
// stays active when validation fails.
func (r *CatalogRepository) Replace(providers []models.Provider, vocabulary models.Vocabulary) (*models.Catalog, error) {
	if err := ValidateCatalog(providers); err != nil {
		return nil, err
	}
	owned := append([]models.Provider(nil), providers...)

	r.mu.Lock()
	defer r.mu.Unlock()
	next := models.NewCatalog(owned, vocabulary, r.current.Version+1, r.now().UTC())
	r.current = next
	return next, nil
}

// ValidateCatalog rejects catalogs with missing or duplicate identifiers and impossible values.
func ValidateCatalog(providers []models.Provider) error {
	ids := make(map[string]struct{}, len(providers))
	slugs := make(map[string]struct{}, len(providers))
	var problems []string

	for i, p := range providers {
		ref := p.ID
		if ref == "" {
			ref = fmt.Sprintf("#%d", i)
		}
		switch {
		case strings.TrimSpace(p.ID) == "":
			problems = append(problems, fmt.Sprintf("provider %s: missing id", ref))
		case hasKey(ids, p.ID):
			problems = append(problems, fmt.Sprintf("provider %s: duplicate id", ref))
		}
		switch {
		case strings.TrimSpace(p.Slug) == "":
			problems = append(problems, fmt.Sprintf("provider %s: missing slug", ref))
		case hasKey(slugs, p.Slug):
			problems = append(problems, fmt.Sprintf("provider %s: duplicate slug %q", ref, p.Slug))
		}
		if p.HourlyRate <= 0 {
			problems = append(problems, fmt.Sprintf("provider %s: hourly rate must be positive", ref))
		}
		if p.MinBookingHours <= 0 {
			problems = append(problems, fmt.Sprintf("provider %s: minimum booking must be positive", ref))
		}
		if p.Rating < 0 || p.Rating > 5 {
			problems = append(problems, fmt.Sprintf("provider %s: rating %.2f out of range", ref, p.Rating))
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
	}

	if len(problems) > 0 {
		return appErrors.Validation("catalog rejected", problems)
	}
	return nil
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
