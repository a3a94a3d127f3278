package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapexdev/scrapex/internal/models"
)

func TestAnalyzeProducesScoresAndFindings(t *testing.T) {
	result := &models.CrawlResult{
		Domain:    "acme.test",
		CrawlTime: time.Now(),
		Pages: []models.Page{
			{URL: "https://acme.test/", MetaTitle: "Acme", MetaDescription: "", Text: "short page", WordCount: 2, StatusCode: 200},
			{
				URL:             "https://acme.test/about",
				MetaTitle:       "Acme",
				MetaDescription: "A long enough description that sits comfortably inside the recommended range.",
				Text:            longText(),
				WordCount:       320,
				StatusCode:      200,
				Emails:          []string{"sales@acme.test"},
			},
		},
	}

	a := New()
	report, err := a.Analyze(result, true)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.Scores.Overall, 0.0)
	assert.LessOrEqual(t, report.Scores.Overall, 100.0)
	assert.Greater(t, report.Scores.Security, 0.0)

	var foundDuplicateTitle, foundExposedContact bool
	for _, f := range report.KeyFindings {
		switch f.Type {
		case "Duplicate Title":
			foundDuplicateTitle = true
		case "Exposed Contact Information":
			foundExposedContact = true
		}
	}
	assert.True(t, foundDuplicateTitle, "two pages share the title \"Acme\"")
	assert.True(t, foundExposedContact, "the second page exposes an email address")
	assert.NotEmpty(t, report.ExecutiveSummary.OverallGrade)
}

func TestAnalyzeFlagsInsecurePages(t *testing.T) {
	result := &models.CrawlResult{
		Domain:    "acme.test",
		CrawlTime: time.Now(),
		Pages: []models.Page{
			{URL: "http://acme.test/", MetaTitle: "Acme", WordCount: 50, StatusCode: 200},
		},
	}

	a := New()
	report, err := a.Analyze(result, true)
	require.NoError(t, err)

	var foundInsecure bool
	for _, f := range report.KeyFindings {
		if f.Type == "Insecure Pages" {
			foundInsecure = true
		}
	}
	assert.True(t, foundInsecure)
}

func longText() string {
	words := make([]string, 0, 320)
	for i := 0; i < 320; i++ {
		words = append(words, "widget")
	}
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
