package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "widgets and gadgets", CleanText("  widgets   and\n\tgadgets  "))
}

func TestExtractKeywords(t *testing.T) {
	text := "widgets widgets widgets gadgets gadgets and the the"
	keywords := ExtractKeywords(text, 2)
	assert.Equal(t, []string{"widgets", "gadgets"}, keywords)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://acme.test/about", NormalizeURL("https://ACME.test/about/#top"))
	assert.Equal(t, "https://acme.test", NormalizeURL("https://acme.test/"))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://acme.test/about"))
	assert.False(t, IsValidURL("not a url"))
	assert.False(t, IsValidURL("ftp://acme.test/file"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "acme_test_report", SanitizeFilename(`acme:test/report`))
}

func TestGetDomainFromURL(t *testing.T) {
	assert.Equal(t, "acme.test", GetDomainFromURL("https://ACME.test:8443/about"))
}

func TestCalculateReadingTime(t *testing.T) {
	assert.Equal(t, 1, CalculateReadingTime(50))
	assert.Equal(t, 2, CalculateReadingTime(400))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 3, WordCount("one two three"))
}
