package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smartclean-api/internal/models"
	"github.com/noah-isme/smartclean-api/internal/repository"
)

func seedCatalog(t *testing.T) []models.Provider {
	t.Helper()
	providers, err := repository.SeedProviders()
	require.NoError(t, err)
	return providers
}

func strPtr(v string) *string { return &v }

func names(providers []models.Provider) []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.Name
	}
	return out
}

func TestFilterProvidersDefaultCriteria(t *testing.T) {
	catalog := seedCatalog(t)

	results, stats := FilterProviders(catalog, models.DefaultCriteria())

	assert.Equal(t, []string{
		"Little Steps Nannies",
		"SparklePro Cleaning",
		"Elite Housekeeping Collective",
		"Sunrise Nanny Agency",
		"GreenLeaf Home Care",
		"Swift Turnover Team",
	}, names(results))
	assert.Equal(t, models.ResultStats{Count: 6, AverageRate: 1600, MinRate: 1300, MaxRate: 1900}, stats)
}

func TestFilterProvidersDoesNotMutateCatalog(t *testing.T) {
	catalog := seedCatalog(t)
	before := append([]models.Provider(nil), catalog...)

	FilterProviders(catalog, models.DefaultCriteria())

	assert.Equal(t, before, catalog)
}

func TestFilterProvidersByLocationIncludesZonesServed(t *testing.T) {
	catalog := seedCatalog(t)
	criteria := models.DefaultCriteria()
	criteria.Location = strPtr("Lavington")

	results, stats := FilterProviders(catalog, criteria)

	assert.Equal(t, []string{"SparklePro Cleaning", "Sunrise Nanny Agency", "GreenLeaf Home Care"}, names(results))
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 1533, stats.AverageRate)
	assert.Equal(t, 1300, stats.MinRate)
	assert.Equal(t, 1800, stats.MaxRate)
}

func TestFilterProvidersPriceBrackets(t *testing.T) {
	catalog := seedCatalog(t)

	cases := []struct {
		bracket string
		want    []string
	}{
		{models.PriceUnder1500, []string{"GreenLeaf Home Care", "Swift Turnover Team"}},
		{models.Price1500To1800, []string{"SparklePro Cleaning", "Elite Housekeeping Collective", "Sunrise Nanny Agency"}},
		{models.PriceOver1800, []string{"Little Steps Nannies"}},
		{"no-such-bracket", names(FeaturedProviders(catalog, -1))},
	}
	for _, tc := range cases {
		t.Run(tc.bracket, func(t *testing.T) {
			criteria := models.DefaultCriteria()
			criteria.PriceBracket = tc.bracket
			results, _ := FilterProviders(catalog, criteria)
			assert.Equal(t, tc.want, names(results))
		})
	}
}

func TestFilterProvidersServiceAndAvailabilityAreExact(t *testing.T) {
	catalog := seedCatalog(t)

	criteria := models.DefaultCriteria()
	criteria.Service = strPtr("Home Cleaning")
	results, _ := FilterProviders(catalog, criteria)
	assert.Equal(t, []string{"SparklePro Cleaning", "GreenLeaf Home Care"}, names(results))

	criteria.Service = strPtr("home cleaning")
	results, _ = FilterProviders(catalog, criteria)
	assert.Empty(t, results)

	criteria = models.DefaultCriteria()
	criteria.Availability = strPtr("overnight")
	results, _ = FilterProviders(catalog, criteria)
	assert.Equal(t, []string{"Little Steps Nannies", "Sunrise Nanny Agency"}, names(results))
}

func TestFilterProvidersQuerySearchesTextFields(t *testing.T) {
	catalog := seedCatalog(t)

	cases := map[string][]string{
		"  NANNY ":       {"Little Steps Nannies", "Sunrise Nanny Agency"},
		"steam":          {"SparklePro Cleaning"},
		"runda":          {"Little Steps Nannies"},
		"airbnb":         {"Swift Turnover Team"},
		"no such thing":  {},
		"plant care":     {"GreenLeaf Home Care"},
		"diplomatic":     {"Elite Housekeeping Collective"},
		"weekly client":  {},
		"upper hill":     {},
		"guest":          {"Elite Housekeeping Collective", "Swift Turnover Team"},
		"SparklePro Cle": {"SparklePro Cleaning"},
	}
	for query, want := range cases {
		t.Run(query, func(t *testing.T) {
			criteria := models.DefaultCriteria()
			criteria.Query = query
			results, _ := FilterProviders(catalog, criteria)
			assert.Equal(t, want, names(results))
		})
	}
}

func TestFilterProvidersRatingAndFlags(t *testing.T) {
	catalog := seedCatalog(t)

	criteria := models.DefaultCriteria()
	criteria.MinRating = 4.8
	results, _ := FilterProviders(catalog, criteria)
	assert.Equal(t, []string{
		"Little Steps Nannies",
		"SparklePro Cleaning",
		"Elite Housekeeping Collective",
		"Sunrise Nanny Agency",
	}, names(results))

	criteria = models.DefaultCriteria()
	criteria.RequireBackgroundCheck = true
	withCheck, _ := FilterProviders(catalog, criteria)
	all, _ := FilterProviders(catalog, models.DefaultCriteria())
	assert.Equal(t, all, withCheck)

	criteria.RequireSupplies = true
	results, stats := FilterProviders(catalog, criteria)
	assert.Equal(t, []string{
		"SparklePro Cleaning",
		"Elite Housekeeping Collective",
		"GreenLeaf Home Care",
		"Swift Turnover Team",
	}, names(results))
	assert.Equal(t, 1475, stats.AverageRate)
}

func TestFilterProvidersEmptyResultHasZeroStats(t *testing.T) {
	catalog := seedCatalog(t)
	criteria := models.DefaultCriteria()
	criteria.Location = strPtr("Mombasa")

	results, stats := FilterProviders(catalog, criteria)

	assert.Empty(t, results)
	assert.NotNil(t, results)
	assert.Equal(t, models.ResultStats{}, stats)
}

func TestFilterProvidersEmptyCatalog(t *testing.T) {
	results, stats := FilterProviders(nil, models.DefaultCriteria())
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.Count)
}

func TestFilterProvidersNarrowingIsMonotonic(t *testing.T) {
	catalog := seedCatalog(t)
	base := models.DefaultCriteria()
	base.PriceBracket = models.Price1500To1800
	wide, _ := FilterProviders(catalog, base)

	narrow := base
	narrow.Location = strPtr("Kilimani")
	narrowed, _ := FilterProviders(catalog, narrow)

	assert.LessOrEqual(t, len(narrowed), len(wide))
	for _, p := range narrowed {
		assert.Contains(t, names(wide), p.Name)
	}
}

func TestFilterProvidersStableForEqualRatings(t *testing.T) {
	catalog := []models.Provider{
		{ID: "a", Name: "A", Rating: 4.5, HourlyRate: 1000},
		{ID: "b", Name: "B", Rating: 4.9, HourlyRate: 1000},
		{ID: "c", Name: "C", Rating: 4.5, HourlyRate: 1000},
		{ID: "d", Name: "D", Rating: 4.9, HourlyRate: 1000},
		{ID: "e", Name: "E", Rating: 4.5, HourlyRate: 1001},
	}

	results, stats := FilterProviders(catalog, models.DefaultCriteria())

	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, names(results))
	assert.Equal(t, 1000, stats.AverageRate)
}

// failedClauses evaluates each search constraint on its own and names the ones p violates.
func failedClauses(p models.Provider, c models.Criteria) []string {
	var failed []string
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		text := strings.ToLower(p.Name + " " + p.Location + " " + p.About + " " +
			strings.Join(p.ServiceTypes, " ") + " " + strings.Join(p.Specialties, " "))
		if !strings.Contains(text, q) {
			failed = append(failed, "query")
		}
	}
	if c.Location != nil && p.Location != *c.Location && !contains(p.ZonesServed, *c.Location) {
		failed = append(failed, "location")
	}
	if c.Service != nil && !contains(p.ServiceTypes, *c.Service) {
		failed = append(failed, "service")
	}
	if !LookupBracket(c.PriceBracket).Contains(p.HourlyRate) {
		failed = append(failed, "price")
	}
	if p.Rating < c.MinRating {
		failed = append(failed, "rating")
	}
	if c.Availability != nil {
		found := false
		for _, tag := range p.AvailabilityTags {
			if strings.EqualFold(tag, *c.Availability) {
				found = true
			}
		}
		if !found {
			failed = append(failed, "availability")
		}
	}
	if c.RequireBackgroundCheck && !p.BackgroundCheck {
		failed = append(failed, "background_check")
	}
	if c.RequireSupplies && !p.SuppliesIncluded {
		failed = append(failed, "supplies_included")
	}
	return failed
}

func searchScenarios() map[string]models.Criteria {
	scenarios := map[string]models.Criteria{"reset": models.DefaultCriteria()}

	lavington := models.DefaultCriteria()
	lavington.Location = strPtr("Lavington")
	scenarios["lavington"] = lavington

	midRange := models.DefaultCriteria()
	midRange.PriceBracket = models.Price1500To1800
	midRange.MinRating = 4.8
	scenarios["mid range top rated"] = midRange

	overnight := models.DefaultCriteria()
	overnight.Availability = strPtr("Overnight")
	overnight.Query = "nanny"
	scenarios["overnight nanny"] = overnight

	equipped := models.DefaultCriteria()
	equipped.Service = strPtr("Home Cleaning")
	equipped.RequireSupplies = true
	equipped.RequireBackgroundCheck = true
	scenarios["equipped cleaners"] = equipped

	budget := models.DefaultCriteria()
	budget.PriceBracket = models.PriceUnder1500
	budget.Location = strPtr("Westlands")
	scenarios["budget westlands"] = budget

	nothing := models.DefaultCriteria()
	nothing.Query = "plumbing"
	scenarios["no match"] = nothing

	return scenarios
}

func TestFilterProvidersPartitionsCatalogByClauses(t *testing.T) {
	catalog := seedCatalog(t)

	for name, criteria := range searchScenarios() {
		t.Run(name, func(t *testing.T) {
			results, stats := FilterProviders(catalog, criteria)
			kept := make(map[string]bool, len(results))
			for i, p := range results {
				kept[p.ID] = true
				assert.Empty(t, failedClauses(p, criteria), p.Name)
				if i > 0 {
					assert.GreaterOrEqual(t, results[i-1].Rating, p.Rating)
				}
			}
			for _, p := range catalog {
				if !kept[p.ID] {
					assert.NotEmpty(t, failedClauses(p, criteria), p.Name)
				}
			}
			assert.Equal(t, len(results), stats.Count)
			assert.Equal(t, ComputeStats(results), stats)
		})
	}
}

func TestFilterProvidersIsIdempotent(t *testing.T) {
	catalog := seedCatalog(t)

	for name, criteria := range searchScenarios() {
		t.Run(name, func(t *testing.T) {
			first, firstStats := FilterProviders(catalog, criteria)
			second, secondStats := FilterProviders(catalog, criteria)
			assert.Equal(t, first, second)
			assert.Equal(t, firstStats, secondStats)

			again, againStats := FilterProviders(first, criteria)
			assert.Equal(t, first, again)
			assert.Equal(t, firstStats, againStats)
		})
	}
}

func TestComputeStatsRoundsHalfUp(t *testing.T) {
	stats := ComputeStats([]models.Provider{{HourlyRate: 1000}, {HourlyRate: 1001}})
	assert.Equal(t, 1001, stats.AverageRate)

	stats = ComputeStats([]models.Provider{{HourlyRate: 1500}, {HourlyRate: 1800}, {HourlyRate: 1300}})
	assert.Equal(t, 1533, stats.AverageRate)
}

func TestFeaturedProviders(t *testing.T) {
	catalog := seedCatalog(t)

	featured := FeaturedProviders(catalog, FeaturedCount)

	assert.Equal(t, []string{"Little Steps Nannies", "SparklePro Cleaning", "Elite Housekeeping Collective"}, names(featured))
	assert.Equal(t, "prv-001", catalog[0].ID)
	assert.Len(t, FeaturedProviders(catalog[:2], FeaturedCount), 2)
}

func TestBuildVocabulary(t *testing.T) {
	vocab := BuildVocabulary(seedCatalog(t))

	assert.Equal(t, []string{
		"Gigiri", "Karen", "Kileleshwa", "Kilimani", "Lavington", "Muthaiga",
		"Parklands", "Riverside", "Runda", "Upper Hill", "Westlands",
	}, vocab.Locations)
	assert.Equal(t, []string{
		"Emergency", "Evenings", "Live-in", "Overnight", "Saturday",
		"Saturday mornings", "Sunday", "Weekdays", "Weekends",
	}, vocab.AvailabilityTags)
	assert.Len(t, vocab.Services, 22)
	assert.Contains(t, vocab.Services, "Airbnb Changeover")
}

func TestLookupBracket(t *testing.T) {
	assert.Equal(t, models.PriceOver1800, LookupBracket("1800+").Key)
	assert.True(t, LookupBracket("1800+").Contains(1801))
	assert.False(t, LookupBracket("1800+").Contains(1800))
	assert.True(t, LookupBracket("1500-1800").Contains(1800))
	assert.Equal(t, models.PriceAny, LookupBracket("cheap").Key)
	assert.Equal(t, models.PriceAny, LookupBracket("").Key)
}

func TestParseRatingOption(t *testing.T) {
	assert.Equal(t, 0.0, ParseRatingOption("any"))
	assert.Equal(t, 0.0, ParseRatingOption(""))
	assert.Equal(t, 0.0, ParseRatingOption("five"))
	assert.Equal(t, 0.0, ParseRatingOption("-1"))
	assert.Equal(t, 4.5, ParseRatingOption("4.5"))
	assert.Equal(t, 4.8, ParseRatingOption(" 4.8 "))
}

func TestCriteriaActive(t *testing.T) {
	assert.False(t, models.DefaultCriteria().Active())
	assert.False(t, models.Criteria{}.Active())

	c := models.DefaultCriteria()
	c.RequireSupplies = true
	assert.True(t, c.Active())

	c = models.DefaultCriteria()
	c.PriceBracket = models.PriceUnder1500
	assert.True(t, c.Active())
}
