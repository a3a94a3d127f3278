package webscraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/response"
	"github.com/scrapexdev/scrapex/pkg/selector"
)

func selectorFor(body []byte) (*selector.Selector, error) {
	return selector.ParseBytes(body)
}

func TestSitemapTextAndLinkCrossProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`
				<div class="category"><a href="/cat/a">Electronics</a></div>
				<div class="category"><a href="/cat/b">Books</a></div>
			`))
		case "/cat/a":
			w.Write([]byte(`<span class="sub">Phones</span><span class="sub">Laptops</span>`))
		case "/cat/b":
			w.Write([]byte(`<span class="sub">Fiction</span>`))
		}
	}))
	defer srv.Close()

	sm := &Sitemap{
		StartURLs: []string{srv.URL},
		Selectors: []Rule{
			{ID: "Category", Selector: "a", Type: SelectorLink, Multiple: true, Parents: []string{rootID}},
			{ID: "SubCategory", Selector: ".sub", Type: SelectorText, Multiple: true, Parents: []string{"Category"}},
		},
	}

	client := htmlclient.New(htmlclient.Options{})
	spider, err := New(sm, client)
	require.NoError(t, err)

	res, err := client.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp := response.New(res.FinalURL, res.Body)
	sel, err := selectorFor(resp.Body)
	require.NoError(t, err)

	rows, err := spider.evalLevel(sel, resp, rootID)
	require.NoError(t, err)
	require.Len(t, rows, 3) // Electronics x {Phones, Laptops} + Books x {Fiction}

	assert.Equal(t, "Electronics", rows[0]["Category"])
	assert.Equal(t, "Phones", rows[0]["SubCategory"])
	assert.Equal(t, "Laptops", rows[1]["SubCategory"])
	assert.Equal(t, "Books", rows[2]["Category"])
	assert.Equal(t, "Fiction", rows[2]["SubCategory"])
}

func TestCombineIdentityOnEmptyColumn(t *testing.T) {
	l := []record{{"a": 1}}
	assert.Equal(t, l, combine(l, nil))
	assert.Equal(t, l, combine(nil, l))
}

func TestCombineCrossProduct(t *testing.T) {
	l := []record{{"a": 1}, {"a": 2}}
	r := []record{{"b": "x"}, {"b": "y"}}
	got := combine(l, r)
	require.Len(t, got, 4)
	assert.Equal(t, record{"a": 1, "b": "x"}, got[0])
	assert.Equal(t, record{"a": 2, "b": "y"}, got[3])
}

func TestSelectorGroupEmitsListValue(t *testing.T) {
	sel, err := selectorFor([]byte(`<span class="tag">red</span><span class="tag">blue</span>`))
	require.NoError(t, err)
	spider := &Spider{}
	rows, err := spider.evalGroup(sel, Rule{ID: "Tags", Selector: ".tag"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"red", "blue"}, rows[0]["Tags"])
}
