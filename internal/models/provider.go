package models

import "time"

// Testimonial is a client quote shown on a provider profile.
type Testimonial struct {
	Quote        string `json:"quote" yaml:"quote"`
	Name         string `json:"name" yaml:"name"`
	Relationship string `json:"relationship" yaml:"relationship"`
}

// AvailabilityWindow lists the time windows offered on a day label ("Monday - Friday", "Overnight").
type AvailabilityWindow struct {
	Day   string   `json:"day" yaml:"day"`
	Slots []string `json:"slots" yaml:"slots"`
}

// Provider is a cleaning or childcare business listed in the directory. Records are
// read-only once a catalog has been loaded.
type Provider struct {
	ID               string               `json:"id" yaml:"id"`
	Slug             string               `json:"slug" yaml:"slug"`
	Name             string               `json:"name" yaml:"name"`
	Location         string               `json:"location" yaml:"location"`
	ZonesServed      []string             `json:"zones_served" yaml:"zonesServed"`
	Rating           float64              `json:"rating" yaml:"rating"`
	ReviewCount      int                  `json:"review_count" yaml:"reviewCount"`
	HourlyRate       int                  `json:"hourly_rate" yaml:"hourlyRate"`
	MinBookingHours  int                  `json:"min_booking_hours" yaml:"minBookingHours"`
	ServiceTypes     []string             `json:"service_types" yaml:"serviceTypes"`
	Specialties      []string             `json:"specialties" yaml:"specialties"`
	About            string               `json:"about" yaml:"about"`
	Experience       string               `json:"experience" yaml:"experience"`
	Languages        []string             `json:"languages" yaml:"languages"`
	Badges           []string             `json:"badges" yaml:"badges"`
	BackgroundCheck  bool                 `json:"background_check" yaml:"backgroundCheck"`
	SuppliesIncluded bool                 `json:"supplies_included" yaml:"suppliesIncluded"`
	ResponseTime     string               `json:"response_time" yaml:"responseTime"`
	Highlights       []string             `json:"highlights" yaml:"highlights"`
	AvailabilityTags []string             `json:"availability_tags" yaml:"availabilityTags"`
	Availability     []AvailabilityWindow `json:"availability" yaml:"availability"`
	Testimonials     []Testimonial        `json:"testimonials" yaml:"testimonials"`
}

// Vocabulary holds the sorted, de-duplicated option lists that populate the search controls.
type Vocabulary struct {
	Locations        []string `json:"locations"`
	Services         []string `json:"services"`
	AvailabilityTags []string `json:"availability_tags"`
}

// Catalog is an immutable snapshot of the provider list plus values derived from it.
type Catalog struct {
	Providers  []Provider
	Vocabulary Vocabulary
	Version    int64
	LoadedAt   time.Time

	bySlug map[string]int
}

// NewCatalog indexes providers by slug. The caller guarantees slugs are unique.
func NewCatalog(providers []Provider, vocabulary Vocabulary, version int64, loadedAt time.Time) *Catalog {
	bySlug := make(map[string]int, len(providers))
	for i, p := range providers {
		bySlug[p.Slug] = i
	}
	return &Catalog{
		Providers:  providers,
		Vocabulary: vocabulary,
		Version:    version,
		LoadedAt:   loadedAt,
		bySlug:     bySlug,
	}
}

// FindBySlug returns the provider addressed by slug, or false when no such provider exists.
func (c *Catalog) FindBySlug(slug string) (Provider, bool) {
	if c == nil {
		return Provider{}, false
	}
	idx, ok := c.bySlug[slug]
	if !ok {
		return Provider{}, false
	}
	return c.Providers[idx], true
}

// Len reports the number of providers in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Providers)
}
