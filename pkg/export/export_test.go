package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Name", "Location", "Services"},
		Rows: [][]string{
			{"SparklePro Cleaning", "Westlands", "Home Cleaning, Deep Cleaning"},
			{"Little Steps Nannies", "Runda", "Live-in Nanny"},
		},
		Widths: []float64{2, 1, 3},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "providers.pdf", f.Filename("providers"))

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Location,Services", lines[0])
	assert.Equal(t, `SparklePro Cleaning,Westlands,"Home Cleaning, Deep Cleaning"`, lines[1])
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only one"})

	_, err := NewCSVExporter().Render(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 has 1 cells")
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"Lucy – Riverside", "Riverside", strings.Repeat("Laundry & Ironing ", 20)})

	out, err := NewPDFExporter().Render(data, "SmartClean providers")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "")
	require.Error(t, err)
}
