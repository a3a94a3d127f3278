package reporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapexdev/scrapex/internal/models"
)

func sampleReport() *models.SEOReport {
	return &models.SEOReport{
		Domain:      "acme.test",
		GeneratedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		ExecutiveSummary: models.ExecutiveSummary{
			OverallGrade: "B",
			OverallScore: 82,
			Strengths:    []string{"Strong content"},
		},
		Scores: models.OverallScores{Technical: 80, Content: 88, Performance: 75, Overall: 82},
		KeyFindings: []models.Finding{
			{Category: "Content", Type: "Thin Content", Description: "3 pages are thin", Severity: "medium"},
		},
	}
}

func TestGenerateSEOReportJSON(t *testing.T) {
	r := New()
	out, err := r.GenerateSEOReport(sampleReport(), "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"domain": "acme.test"`)
}

func TestGenerateSEOReportMarkdown(t *testing.T) {
	r := New()
	out, err := r.GenerateSEOReport(sampleReport(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# SEO Report for acme.test")
	assert.Contains(t, out, "Thin Content")
}

func TestGenerateSEOReportHTML(t *testing.T) {
	r := New()
	out, err := r.GenerateSEOReport(sampleReport(), "html")
	require.NoError(t, err)
	assert.Contains(t, out, "SEO Report - acme.test")
}

func TestGenerateSEOReportUnsupportedFormat(t *testing.T) {
	r := New()
	_, err := r.GenerateSEOReport(sampleReport(), "xml")
	require.Error(t, err)
}
