// Package selector implements the DOM query/extract façade of spec.md
// §4.3 on top of goquery/cascadia, the CSS engine the rest of the pack
// (haesookimDev-newscrawler's processor, vc-assist-backend's scrapers)
// reaches for whenever it needs to walk parsed HTML.
package selector

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector wraps a goquery.Selection — a forest of zero or more root
// nodes, matching spec.md's "parsed HTML forest" contract.
type Selector struct {
	sel *goquery.Selection
}

// whitespaceRun matches any run of Unicode whitespace, used by
// Extract("text") to collapse interior runs to a single space. RE2's
// \s covers only [\t\n\f\r ], so the vertical tab, U+0085, scraped HTML
// entities like &nbsp; (U+00A0) and other Zs-category separators need to
// be listed explicitly.
var whitespaceRun = regexp.MustCompile(`[\s\x{000b}\x{0085}\x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)

// Parse builds a Selector over the root of an HTML document.
func Parse(html string) (*Selector, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Selector{sel: doc.Selection}, nil
}

// ParseBytes is Parse for a []byte body, the shape Response.Body carries.
func ParseBytes(body []byte) (*Selector, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	return &Selector{sel: doc.Selection}, nil
}

// Select filters the forest by a CSS selector, returning every matching
// descendant across every root, in document order.
func (s *Selector) Select(css string) *Selector {
	return &Selector{sel: s.sel.Find(css)}
}

// Extract returns one string per root: for attr=="text" the root's
// concatenated descendant text with all Unicode whitespace collapsed to
// single spaces and trimmed; for any other attr, that attribute's value
// (roots missing the attribute contribute nothing, per spec.md §4.3).
func (s *Selector) Extract(attr string) []string {
	var out []string
	s.sel.Each(func(_ int, node *goquery.Selection) {
		if attr == "" || attr == "text" {
			out = append(out, normalizeText(node.Text()))
			return
		}
		if v, ok := node.Attr(attr); ok {
			out = append(out, v)
		}
	})
	return out
}

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Each yields one singleton Selector per root, in document order.
func (s *Selector) Each(fn func(*Selector)) {
	s.sel.Each(func(_ int, node *goquery.Selection) {
		fn(&Selector{sel: node})
	})
}

// Count reports the number of roots in the forest.
func (s *Selector) Count() int { return s.sel.Length() }

// Contains reports whether css matches anything within the forest —
// spec.md's membership test `x ∈ s` iff `select(s, x)` is non-empty.
func (s *Selector) Contains(css string) bool {
	return s.Select(css).Count() > 0
}

// First returns a singleton Selector over the forest's first root, and
// false if the forest is empty.
func (s *Selector) First() (*Selector, bool) {
	if s.sel.Length() == 0 {
		return nil, false
	}
	return &Selector{sel: s.sel.First()}, true
}
