package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapexdev/scrapex/internal/models"
)

func TestBuildCrawlResult(t *testing.T) {
	records := []any{
		map[string]any{
			"url":         "https://acme.test/",
			"title":       "Acme",
			"description": "Widgets",
			"text":        "Acme sells the finest widgets in town.",
			"emails":      []string{"sales@acme.test"},
			"status_code": 200,
			"links":       []models.Link{{ToURL: "https://blog.acme.test/post", AnchorText: "Blog"}},
		},
		map[string]any{
			"url":         "https://blog.acme.test/post",
			"title":       "Acme Blog",
			"status_code": 200,
		},
	}

	result, err := BuildCrawlResult("acme.test", records)
	require.NoError(t, err)
	assert.Equal(t, "acme.test", result.Domain)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, []string{"blog.acme.test"}, result.Subdomains)
	assert.Equal(t, []string{"sales@acme.test"}, result.Pages[0].Emails)
}

func TestBuildCrawlResultSkipsMalformedRecords(t *testing.T) {
	result, err := BuildCrawlResult("acme.test", []any{"not a map"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Empty(t, result.Pages)
}
