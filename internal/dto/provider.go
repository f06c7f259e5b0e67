package dto

import "github.com/noah-isme/smartclean-api/internal/models"

// ProviderSearchResponse is the payload for a provider search.
type ProviderSearchResponse struct {
	Providers []models.Provider  `json:"providers"`
	Stats     models.ResultStats `json:"stats"`
}

// ProviderSearch bundles a search result with the snapshot it was computed from.
type ProviderSearch struct {
	Result         ProviderSearchResponse
	Criteria       models.Criteria
	FiltersActive  bool
	CatalogVersion int64
}

// PriceBracketOption is a price tier as offered to clients. Max is null for open tiers.
type PriceBracketOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   *int   `json:"max"`
}

// FilterOptionsResponse lists everything needed to render the search controls.
type FilterOptionsResponse struct {
	Locations        []string              `json:"locations"`
	Services         []string              `json:"services"`
	AvailabilityTags []string              `json:"availability_tags"`
	PriceBrackets    []PriceBracketOption  `json:"price_brackets"`
	RatingOptions    []models.RatingOption `json:"rating_options"`
	Defaults         models.Criteria       `json:"defaults"`
	CatalogVersion   int64                 `json:"catalog_version"`
}

// PageMetadata carries the document title and description for a profile page.
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ProviderProfileResponse is a provider plus its page metadata.
type ProviderProfileResponse struct {
	Provider models.Provider `json:"provider"`
	Metadata PageMetadata    `json:"metadata"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int
}
