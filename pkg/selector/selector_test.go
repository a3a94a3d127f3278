package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
<html><body>
  <div class="item"><a href="/one">  One   title  </a></div>
  <div class="item"><a href="/two">Two</a></div>
  <p class="empty"></p>
</body></html>
`

func TestSelectAndExtractText(t *testing.T) {
	s, err := Parse(fixture)
	require.NoError(t, err)

	links := s.Select("a")
	assert.Equal(t, 2, links.Count())
	assert.Equal(t, []string{"One title", "Two"}, links.Extract("text"))
}

func TestExtractAttribute(t *testing.T) {
	s, err := Parse(fixture)
	require.NoError(t, err)

	hrefs := s.Select("a").Extract("href")
	assert.Equal(t, []string{"/one", "/two"}, hrefs)
}

func TestExtractMissingAttributeContributesNothing(t *testing.T) {
	s, err := Parse(fixture)
	require.NoError(t, err)

	ids := s.Select("a").Extract("id")
	assert.Empty(t, ids)
}

func TestEachYieldsSingletons(t *testing.T) {
	s, err := Parse(fixture)
	require.NoError(t, err)

	var counts []int
	s.Select("div.item").Each(func(item *Selector) {
		counts = append(counts, item.Count())
	})
	assert.Equal(t, []int{1, 1}, counts)
}

func TestContains(t *testing.T) {
	s, err := Parse(fixture)
	require.NoError(t, err)

	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("video"))
}
