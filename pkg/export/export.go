package export

import (
	"fmt"
	"strings"
)

// Format names a downloadable rendering.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat resolves a format query value. Empty selects CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds an attachment name for the format.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Dataset defines tabular export content. Each row holds one cell per header, in header order.
type Dataset struct {
	Headers []string
	Rows    [][]string
	// Widths are relative column weights for paged output. Missing weights default to 1.
	Widths []float64
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}

func (d Dataset) weight(i int) float64 {
	if i < len(d.Widths) && d.Widths[i] > 0 {
		return d.Widths[i]
	}
	return 1
}
