// Package webscraper implements the sitemap rule-tree interpreter of
// spec.md §4.5: a declarative parse strategy that drives the Engine's
// nested request/await machinery to realise parent→child scraping.
package webscraper

import (
	"encoding/json"
	"fmt"
)

// SelectorKind discriminates a Sitemap rule's evaluation strategy.
type SelectorKind string

const (
	SelectorText             SelectorKind = "SelectorText"
	SelectorLink             SelectorKind = "SelectorLink"
	SelectorElement          SelectorKind = "SelectorElement"
	SelectorElementAttribute SelectorKind = "SelectorElementAttribute"
	SelectorGroup            SelectorKind = "SelectorGroup"
)

// rootID is the pseudo-id every top-level rule's Parents entry points at.
const rootID = "_root"

// Rule is one node of the sitemap rule tree — spec.md §3's "Sitemap rule
// (WebScraper)" entity.
type Rule struct {
	ID               string       `json:"id"`
	Selector         string       `json:"selector"`
	Type             SelectorKind `json:"type"`
	Multiple         bool         `json:"multiple"`
	Parents          []string     `json:"parentSelectors"`
	ExtractAttribute string       `json:"extractAttribute,omitempty"`
	Regex            string       `json:"regex,omitempty"`
}

// Sitemap is the decoded sitemap JSON document of spec.md §6.
type Sitemap struct {
	StartURLs []string `json:"startUrl"`
	Selectors []Rule   `json:"selectors"`
}

// UnmarshalJSON accepts startUrl as either a single string or a list,
// matching the "startUrl: string|[string]" contract in spec.md §6.
func (s *Sitemap) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartURL  json.RawMessage `json:"startUrl"`
		Selectors []Rule          `json:"selectors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Selectors = raw.Selectors

	var single string
	if err := json.Unmarshal(raw.StartURL, &single); err == nil {
		s.StartURLs = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw.StartURL, &many); err != nil {
		return fmt.Errorf("startUrl: %w", err)
	}
	s.StartURLs = many
	return nil
}

// ParseSitemap decodes a sitemap JSON document.
func ParseSitemap(data []byte) (*Sitemap, error) {
	var sm Sitemap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	return &sm, nil
}

// tree is the sitemap's rules compiled into parent-id -> children index,
// in declaration order, ready for depth-first evaluation.
type tree struct {
	byParent map[string][]Rule
	byID     map[string]Rule
}

// compile indexes a Sitemap's rules by parent id, preserving declaration
// order within each parent's child list (spec.md §4.5: "Rule evaluation
// order at a level follows the original rule declaration order").
func compile(rules []Rule) (*tree, error) {
	t := &tree{
		byParent: make(map[string][]Rule),
		byID:     make(map[string]Rule, len(rules)),
	}
	for _, r := range rules {
		t.byID[r.ID] = r
	}
	for _, r := range rules {
		for _, p := range r.Parents {
			if p != rootID {
				if _, ok := t.byID[p]; !ok {
					return nil, fmt.Errorf("rule %q: parent %q does not exist", r.ID, p)
				}
			}
			t.byParent[p] = append(t.byParent[p], r)
		}
	}
	return t, nil
}

// childrenOf returns parentID's children in declaration order.
func (t *tree) childrenOf(parentID string) []Rule {
	return t.byParent[parentID]
}
