package webscraper

import (
	"context"
	"fmt"
	"regexp"

	"github.com/scrapexdev/scrapex/pkg/engine"
	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/request"
	"github.com/scrapexdev/scrapex/pkg/response"
	"github.com/scrapexdev/scrapex/pkg/selector"
)

// record is a single string-keyed output row, spec.md §3's ParseResult
// element shape.
type record map[string]any

// Spider evaluates a Sitemap's rule tree against each fetched page,
// implementing engine.Spider's Parse by running the cross-product
// algorithm of spec.md §4.5 and recursing into the Engine's own
// Request/Await machinery for SelectorLink children.
type Spider struct {
	sitemap *Sitemap
	tree    *tree
	client  htmlclient.Client
}

// New compiles sm's rule tree and returns a Spider that fetches nested
// pages through client.
func New(sm *Sitemap, client htmlclient.Client) (*Spider, error) {
	t, err := compile(sm.Selectors)
	if err != nil {
		return nil, err
	}
	return &Spider{sitemap: sm, tree: t, client: client}, nil
}

// StartURLs returns the sitemap's configured seed list, for wiring into
// engine.Options.URLs.
func (s *Spider) StartURLs() []string { return s.sitemap.StartURLs }

// Parse implements engine.Spider: it evaluates the rule tree rooted at
// _root against resp and returns the flattened record list as a single
// KindRecords Outcome.
func (s *Spider) Parse(resp *response.Response, _ engine.State) (engine.Outcome, error) {
	sel, err := selector.ParseBytes(resp.Body)
	if err != nil {
		return engine.Outcome{}, fmt.Errorf("webscraper: parse html: %w", err)
	}
	rows, err := s.evalLevel(sel, resp, rootID)
	if err != nil {
		return engine.Outcome{}, err
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return engine.OKRecords(out), nil
}

// evalLevel evaluates every child rule of parentID against sel (the
// current page or subtree view) in declaration order, folding each
// rule's column into the running set via combine.
func (s *Spider) evalLevel(sel *selector.Selector, resp *response.Response, parentID string) ([]record, error) {
	var acc []record
	for _, rule := range s.tree.childrenOf(parentID) {
		col, err := s.evalRule(sel, resp, rule)
		if err != nil {
			return nil, err
		}
		acc = combine(acc, col)
	}
	return acc, nil
}

// combine is the cross-product fold of spec.md §4.5: pairwise left-join
// over two columns, with empty columns acting as the identity (not the
// absorbing element) so a missing sub-selector prunes only its own
// column rather than the whole row set.
func combine(l, r []record) []record {
	if len(l) == 0 {
		return r
	}
	if len(r) == 0 {
		return l
	}
	out := make([]record, 0, len(l)*len(r))
	for _, lr := range l {
		for _, rr := range r {
			merged := make(record, len(lr)+len(rr))
			for k, v := range lr {
				merged[k] = v
			}
			for k, v := range rr {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

func (s *Spider) evalRule(sel *selector.Selector, resp *response.Response, rule Rule) ([]record, error) {
	switch rule.Type {
	case SelectorText:
		return s.evalText(sel, rule)
	case SelectorLink:
		return s.evalLink(sel, resp, rule)
	case SelectorElement:
		return s.evalElement(sel, resp, rule)
	case SelectorElementAttribute:
		return s.evalAttribute(sel, rule)
	case SelectorGroup:
		return s.evalGroup(sel, rule)
	default:
		return nil, fmt.Errorf("webscraper: rule %q: unknown type %q", rule.ID, rule.Type)
	}
}

func (s *Spider) matches(sel *selector.Selector, rule Rule) *selector.Selector {
	matched := sel.Select(rule.Selector)
	if rule.Multiple {
		return matched
	}
	if first, ok := matched.First(); ok {
		return first
	}
	return matched // empty
}

// evalText implements SelectorText: value is the matched text, or the
// first captured group of rule.Regex if it is set and matches.
func (s *Spider) evalText(sel *selector.Selector, rule Rule) ([]record, error) {
	matched := s.matches(sel, rule)
	var re *regexp.Regexp
	if rule.Regex != "" {
		compiled, err := regexp.Compile(rule.Regex)
		if err != nil {
			return nil, fmt.Errorf("webscraper: rule %q: bad regex: %w", rule.ID, err)
		}
		re = compiled
	}

	var out []record
	for _, text := range matched.Extract("text") {
		value := text
		if re != nil {
			if m := re.FindStringSubmatch(text); len(m) > 1 {
				value = m[1]
			}
		}
		out = append(out, record{rule.ID: value})
	}
	return out, nil
}

// evalLink implements SelectorLink: each matched anchor contributes its
// text plus a "<id>-href" joined URL, and — if the rule has children —
// recurses into a synchronous sub-request/await of that URL, combining
// the child rows onto this anchor's pair before moving to the next
// anchor.
func (s *Spider) evalLink(sel *selector.Selector, resp *response.Response, rule Rule) ([]record, error) {
	matched := s.matches(sel, rule)
	children := s.tree.childrenOf(rule.ID)

	var out []record
	matched.Each(func(node *selector.Selector) {
		texts := node.Extract("text")
		hrefs := node.Extract("href")
		if len(hrefs) == 0 {
			return
		}
		text := ""
		if len(texts) > 0 {
			text = texts[0]
		}
		joined := resp.Join(hrefs[0])
		pair := []record{{rule.ID: text, rule.ID + "-href": joined}}

		if len(children) == 0 {
			out = append(out, pair...)
			return
		}

		childRows, err := s.fetchAndEval(joined, rule.ID)
		if err != nil {
			// Transport/NotFound errors on a nested fetch prune only this
			// anchor's contribution, mirroring how the Engine itself treats
			// a failed top-level fetch as an empty result.
			return
		}
		out = append(out, combine(pair, childRows)...)
	})
	return out, nil
}

// fetchAndEval issues a nested Request for url and awaits it with an
// infinite timeout (spec.md §4.4.4), evaluating ruleID's children
// against the fetched page once it resolves.
func (s *Spider) fetchAndEval(url, ruleID string) ([]record, error) {
	req := request.Async(context.Background(), s.client, url, func(resp *response.Response) ([]record, error) {
		sel, err := selector.ParseBytes(resp.Body)
		if err != nil {
			return nil, err
		}
		return s.evalLevel(sel, resp, ruleID)
	})
	return req.Await(context.Background())
}

// evalElement implements SelectorElement: the matched node contributes
// no key/value pair itself, only the rows produced by recursing its
// children against the node's own subtree.
func (s *Spider) evalElement(sel *selector.Selector, resp *response.Response, rule Rule) ([]record, error) {
	matched := s.matches(sel, rule)

	var out []record
	matched.Each(func(node *selector.Selector) {
		rows, err := s.evalLevel(node, resp, rule.ID)
		if err != nil {
			return
		}
		out = append(out, rows...)
	})
	return out, nil
}

// evalAttribute implements SelectorElementAttribute: one record per
// matched node that actually carries ExtractAttribute.
func (s *Spider) evalAttribute(sel *selector.Selector, rule Rule) ([]record, error) {
	matched := s.matches(sel, rule)
	var out []record
	matched.Each(func(node *selector.Selector) {
		vals := node.Extract(rule.ExtractAttribute)
		if len(vals) == 0 {
			return
		}
		out = append(out, record{rule.ID: vals[0]})
	})
	return out, nil
}

// evalGroup implements SelectorGroup: a single record whose value is the
// entire list of matched text values — the deliberate list-value
// deviation from upstream WebScraper that spec.md §4.5 calls out.
func (s *Spider) evalGroup(sel *selector.Selector, rule Rule) ([]record, error) {
	matched := sel.Select(rule.Selector) // SelectorGroup always gathers every match
	values := matched.Extract("text")
	return []record{{rule.ID: values}}, nil
}
