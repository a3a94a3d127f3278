package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
<html>
<head>
  <title>Acme Corp</title>
  <meta name="description" content="We sell widgets">
</head>
<body>
  <p>Contact us at sales@acme.test or +1 (555) 123-4567.</p>
  <a href="https://twitter.com/acmecorp">Twitter</a>
  <a href="https://linkedin.com/in/jane-doe">Jane</a>
  <a href="https://wa.me/15551234567">Chat with us</a>
  <a href="/about">About</a>
</body>
</html>
`

func TestExtractMetadata(t *testing.T) {
	e := New()
	title, description, err := e.ExtractMetadata(fixture)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", title)
	assert.Equal(t, "We sell widgets", description)
}

func TestExtractEmails(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"sales@acme.test"}, e.ExtractEmails(fixture))
}

func TestExtractSocialHandles(t *testing.T) {
	e := New()
	twitter, linkedin := e.ExtractSocialHandles(fixture)
	assert.Equal(t, []string{"@acmecorp"}, twitter)
	assert.Equal(t, []string{"jane-doe"}, linkedin)
}

func TestExtractWhatsApps(t *testing.T) {
	e := New()
	assert.Equal(t, []string{"15551234567"}, e.ExtractWhatsApps(fixture))
}

func TestExtractLinksResolvesRelative(t *testing.T) {
	e := New()
	links, err := e.ExtractLinks(fixture, "https://acme.test/page")
	require.NoError(t, err)

	var about *Link
	for i := range links {
		if links[i].AnchorText == "About" {
			about = &links[i]
		}
	}
	require.NotNil(t, about)
	assert.Equal(t, "https://acme.test/about", about.URL)
}

func TestEnrich(t *testing.T) {
	e := New()
	content, err := e.Enrich(fixture, "https://acme.test/")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", content.Title)
	assert.Contains(t, content.Emails, "sales@acme.test")
	assert.NotEmpty(t, content.Links)
}
