package models

import "time"

// MetricsSnapshot is a lightweight summary of process counters for the status endpoint.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SearchesTotal            uint64    `json:"searches_total"`
	EmptySearchesTotal       uint64    `json:"empty_searches_total"`
	CatalogProviders         int       `json:"catalog_providers"`
	CatalogVersion           int64     `json:"catalog_version"`
	CatalogReloadFailures    uint64    `json:"catalog_reload_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
