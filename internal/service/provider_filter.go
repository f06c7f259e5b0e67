package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/smartclean-api/internal/models"
)

// FeaturedCount is the number of providers highlighted on the landing page.
const FeaturedCount = 3

// FilterProviders applies criteria to catalog and returns the survivors ranked by rating,
// highest first, together with rate statistics over the survivors only. Providers sharing a
// rating keep their catalog order. The catalog is not modified.
func FilterProviders(catalog []models.Provider, criteria models.Criteria) ([]models.Provider, models.ResultStats) {
	m := newMatcher(criteria)

	results := make([]models.Provider, 0, len(catalog))
	for _, p := range catalog {
		if m.matches(p) {
			results = append(results, p)
		}
	}
	rankByRating(results)

	return results, ComputeStats(results)
}

// ComputeStats summarises hourly rates. The average is rounded half away from zero.
func ComputeStats(providers []models.Provider) models.ResultStats {
	if len(providers) == 0 {
		return models.ResultStats{}
	}

	total := 0
	minRate := providers[0].HourlyRate
	maxRate := providers[0].HourlyRate
	for _, p := range providers {
		total += p.HourlyRate
		if p.HourlyRate < minRate {
			minRate = p.HourlyRate
		}
		if p.HourlyRate > maxRate {
			maxRate = p.HourlyRate
		}
	}

	return models.ResultStats{
		Count:       len(providers),
		AverageRate: int(math.Round(float64(total) / float64(len(providers)))),
		MinRate:     minRate,
		MaxRate:     maxRate,
	}
}

// FeaturedProviders returns the n best-rated providers of the unfiltered catalog.
func FeaturedProviders(catalog []models.Provider, n int) []models.Provider {
	ranked := append([]models.Provider(nil), catalog...)
	rankByRating(ranked)
	if n >= 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// BuildVocabulary derives the option lists for the search controls. Locations include both
// primary locations and zones served.
func BuildVocabulary(catalog []models.Provider) models.Vocabulary {
	var locations, services, tags []string
	for _, p := range catalog {
		locations = append(locations, p.Location)
		locations = append(locations, p.ZonesServed...)
		services = append(services, p.ServiceTypes...)
		tags = append(tags, p.AvailabilityTags...)
	}
	return models.Vocabulary{
		Locations:        sortedSet(locations),
		Services:         sortedSet(services),
		AvailabilityTags: sortedSet(tags),
	}
}

// LookupBracket resolves a bracket key. Unknown keys resolve to the open "any" bracket.
func LookupBracket(key string) models.PriceBracket {
	for _, b := range models.PriceBrackets {
		if b.Key == key {
			return b
		}
	}
	return models.PriceBrackets[0]
}

// ParseRatingOption turns a rating control value into a threshold. "any", empty and
// unparseable values mean no threshold.
func ParseRatingOption(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "any") {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

type matcher struct {
	query        string
	location     *string
	service      *string
	bracket      models.PriceBracket
	minRating    float64
	availability string
	hasAvail     bool
	background   bool
	supplies     bool
}

func newMatcher(c models.Criteria) matcher {
	m := matcher{
		query:      strings.ToLower(strings.TrimSpace(c.Query)),
		location:   c.Location,
		service:    c.Service,
		bracket:    LookupBracket(c.PriceBracket),
		minRating:  c.MinRating,
		background: c.RequireBackgroundCheck,
		supplies:   c.RequireSupplies,
	}
	if c.Availability != nil {
		m.availability = strings.ToLower(*c.Availability)
		m.hasAvail = true
	}
	return m
}

func (m matcher) matches(p models.Provider) bool {
	return m.matchesQuery(p) &&
		m.matchesLocation(p) &&
		m.matchesService(p) &&
		m.bracket.Contains(p.HourlyRate) &&
		p.Rating >= m.minRating &&
		m.matchesAvailability(p) &&
		(!m.background || p.BackgroundCheck) &&
		(!m.supplies || p.SuppliesIncluded)
}

func (m matcher) matchesQuery(p models.Provider) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(haystack(p), m.query)
}

func (m matcher) matchesLocation(p models.Provider) bool {
	if m.location == nil {
		return true
	}
	return p.Location == *m.location || contains(p.ZonesServed, *m.location)
}

func (m matcher) matchesService(p models.Provider) bool {
	if m.service == nil {
		return true
	}
	return contains(p.ServiceTypes, *m.service)
}

func (m matcher) matchesAvailability(p models.Provider) bool {
	if !m.hasAvail {
		return true
	}
	for _, tag := range p.AvailabilityTags {
		if strings.ToLower(tag) == m.availability {
			return true
		}
	}
	return false
}

// haystack is the lower-cased text searched by the free-text query.
func haystack(p models.Provider) string {
	return strings.ToLower(strings.Join([]string{
		p.Name,
		p.Location,
		p.About,
		strings.Join(p.ServiceTypes, " "),
		strings.Join(p.Specialties, " "),
	}, " "))
}

func rankByRating(providers []models.Provider) {
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Rating > providers[j].Rating
	})
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	collate.New(language.English).SortStrings(out)
	return out
}
