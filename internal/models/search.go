package models

import "math"

// Price bracket keys offered by the search controls.
const (
	PriceAny        = "any"
	PriceUnder1500  = "under-1500"
	Price1500To1800 = "1500-1800"
	PriceOver1800   = "1800+"
)

// PriceBracket is a named, inclusive hourly-rate range. Max is +Inf for open brackets.
type PriceBracket struct {
	Key   string  `json:"value"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"-"`
}

// Contains reports whether rate falls inside the bracket, both ends inclusive.
func (b PriceBracket) Contains(rate int) bool {
	r := float64(rate)
	return r >= b.Min && r <= b.Max
}

// Open reports whether the bracket has no upper bound.
func (b PriceBracket) Open() bool {
	return math.IsInf(b.Max, 1)
}

// PriceBrackets is the fixed tier table. The 1800/1801 split between the last two tiers is
// part of the tier design.
var PriceBrackets = []PriceBracket{
	{Key: PriceAny, Label: "Any budget", Min: 0, Max: math.Inf(1)},
	{Key: PriceUnder1500, Label: "Under KES 1,500/hr", Min: 0, Max: 1499},
	{Key: Price1500To1800, Label: "KES 1,500 - 1,800/hr", Min: 1500, Max: 1800},
	{Key: PriceOver1800, Label: "KES 1,800+/hr", Min: 1801, Max: math.Inf(1)},
}

// RatingOption is a minimum-rating choice offered by the search controls.
type RatingOption struct {
	Value string  `json:"value"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

// RatingOptions lists the selectable rating thresholds.
var RatingOptions = []RatingOption{
	{Value: "any", Label: "Any rating", Min: 0},
	{Value: "4.5", Label: "4.5 stars & up", Min: 4.5},
	{Value: "4.8", Label: "4.8 stars & up", Min: 4.8},
}

// Criteria is the set of constraints a visitor applies to the catalog. Nil pointers and zero
// values mean "no constraint" for their dimension.
type Criteria struct {
	Query                  string  `json:"query"`
	Location               *string `json:"location,omitempty"`
	Service                *string `json:"service,omitempty"`
	PriceBracket           string  `json:"price"`
	MinRating              float64 `json:"min_rating"`
	Availability           *string `json:"availability,omitempty"`
	RequireBackgroundCheck bool    `json:"background_check"`
	RequireSupplies        bool    `json:"supplies_included"`
}

// DefaultCriteria is the reset state: nothing constrained.
func DefaultCriteria() Criteria {
	return Criteria{PriceBracket: PriceAny}
}

// Active reports whether any dimension differs from the reset state.
func (c Criteria) Active() bool {
	return c.Query != "" ||
		c.Location != nil ||
		c.Service != nil ||
		(c.PriceBracket != "" && c.PriceBracket != PriceAny) ||
		c.MinRating > 0 ||
		c.Availability != nil ||
		c.RequireBackgroundCheck ||
		c.RequireSupplies
}

// ResultStats summarises the hourly rates of a filtered result set. All rates are zero when
// Count is zero.
type ResultStats struct {
	Count       int `json:"count"`
	AverageRate int `json:"average_rate"`
	MinRate     int `json:"min_rate"`
	MaxRate     int `json:"max_rate"`
}

// SearchResult pairs the ranked providers with their stats.
type SearchResult struct {
	Providers []Provider  `json:"providers"`
	Stats     ResultStats `json:"stats"`
}
