package repository

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/smartclean-api/internal/models"
)

//go:embed seed/providers.yaml
var seedCatalog []byte

type catalogDocument struct {
	Providers []models.Provider `yaml:"providers"`
}

// SeedProviders decodes the embedded launch catalog.
func SeedProviders() ([]models.Provider, error) {
	return decodeCatalog(seedCatalog)
}

func decodeCatalog(raw []byte) ([]models.Provider, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Providers, nil
}

// YAMLCatalogLoader reads the catalog from a YAML file. An empty path selects the embedded seed.
type YAMLCatalogLoader struct {
	path string
}

// NewYAMLCatalogLoader constructs a YAML loader.
func NewYAMLCatalogLoader(path string) *YAMLCatalogLoader {
	return &YAMLCatalogLoader{path: path}
}

// Source names the catalog origin for logs and metrics.
func (l *YAMLCatalogLoader) Source() string {
	if l.path == "" {
		return "seed"
	}
	return "file"
}

// Load returns the providers in document order.
func (l *YAMLCatalogLoader) Load(ctx context.Context) ([]models.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.path == "" {
		return SeedProviders()
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", l.path, err)
	}
	return decodeCatalog(raw)
}

// PostgresCatalogLoader reads active providers from the providers table.
type PostgresCatalogLoader struct {
	db *sqlx.DB
}

// NewPostgresCatalogLoader constructs the loader.
func NewPostgresCatalogLoader(db *sqlx.DB) *PostgresCatalogLoader {
	return &PostgresCatalogLoader{db: db}
}

// Source names the catalog origin for logs and metrics.
func (l *PostgresCatalogLoader) Source() string {
	return "postgres"
}

type providerRow struct {
	ID               string         `db:"id"`
	Slug             string         `db:"slug"`
	Name             string         `db:"name"`
	Location         string         `db:"location"`
	ZonesServed      pq.StringArray `db:"zones_served"`
	Rating           float64        `db:"rating"`
	ReviewCount      int            `db:"review_count"`
	HourlyRate       int            `db:"hourly_rate"`
	MinBookingHours  int            `db:"min_booking_hours"`
	ServiceTypes     pq.StringArray `db:"service_types"`
	Specialties      pq.StringArray `db:"specialties"`
	About            string         `db:"about"`
	Experience       string         `db:"experience"`
	Languages        pq.StringArray `db:"languages"`
	Badges           pq.StringArray `db:"badges"`
	BackgroundCheck  bool           `db:"background_check"`
	SuppliesIncluded bool           `db:"supplies_included"`
	ResponseTime     string         `db:"response_time"`
	Highlights       pq.StringArray `db:"highlights"`
	AvailabilityTags pq.StringArray `db:"availability_tags"`
	Availability     []byte         `db:"availability"`
	Testimonials     []byte         `db:"testimonials"`
}

const listProvidersQuery = `SELECT id, slug, name, location, zones_served, rating, review_count, hourly_rate,
min_booking_hours, service_types, specialties, about, experience, languages, badges, background_check,
supplies_included, response_time, highlights, availability_tags, availability, testimonials
FROM providers WHERE active = TRUE ORDER BY position ASC, id ASC`

// Load returns active providers in catalog position order.
func (l *PostgresCatalogLoader) Load(ctx context.Context) ([]models.Provider, error) {
	var rows []providerRow
	if err := l.db.SelectContext(ctx, &rows, listProvidersQuery); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("list providers: %w", err)
	}

	providers := make([]models.Provider, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func (r providerRow) toModel() (models.Provider, error) {
	p := models.Provider{
		ID:               r.ID,
		Slug:             r.Slug,
		Name:             r.Name,
		Location:         r.Location,
		ZonesServed:      []string(r.ZonesServed),
		Rating:           r.Rating,
		ReviewCount:      r.ReviewCount,
		HourlyRate:       r.HourlyRate,
		MinBookingHours:  r.MinBookingHours,
		ServiceTypes:     []string(r.ServiceTypes),
		Specialties:      []string(r.Specialties),
		About:            r.About,
		Experience:       r.Experience,
		Languages:        []string(r.Languages),
		Badges:           []string(r.Badges),
		BackgroundCheck:  r.BackgroundCheck,
		SuppliesIncluded: r.SuppliesIncluded,
		ResponseTime:     r.ResponseTime,
		Highlights:       []string(r.Highlights),
		AvailabilityTags: []string(r.AvailabilityTags),
	}
	if len(r.Availability) > 0 {
		if err := json.Unmarshal(r.Availability, &p.Availability); err != nil {
			return models.Provider{}, fmt.Errorf("decode availability for %s: %w", r.ID, err)
		}
	}
	if len(r.Testimonials) > 0 {
		if err := json.Unmarshal(r.Testimonials, &p.Testimonials); err != nil {
			return models.Provider{}, fmt.Errorf("decode testimonials for %s: %w", r.ID, err)
		}
	}
	return p, nil
}
