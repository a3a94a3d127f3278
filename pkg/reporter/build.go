package reporter

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/scrapexdev/scrapex/internal/models"
	"github.com/scrapexdev/scrapex/pkg/utils"
)

// BuildCrawlResult turns the flat record list an Engine/WebScraper export
// produces (spec.md §4.4.6) into the aggregate CrawlResult shape the
// Analyzer consumes. Each record is expected to carry the fields the
// default "scrapex run" callback writes (see cmd/scrapex): url, title,
// description, text, emails, phones, twitter, linkedin, whatsapps, links,
// status_code.
func BuildCrawlResult(domain string, records []any) (*models.CrawlResult, error) {
	result := &models.CrawlResult{
		Domain:    domain,
		CrawlTime: time.Now(),
	}

	subdomains := make(map[string]bool)

	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			result.ErrorCount++
			continue
		}
		text := utils.CleanText(stringField(m, "text"))
		wordCount := utils.WordCount(text)

		page := models.Page{
			URL:             stringField(m, "url"),
			Text:            text,
			MetaTitle:       stringField(m, "title"),
			MetaDescription: stringField(m, "description"),
			Emails:          stringSliceField(m, "emails"),
			Phones:          stringSliceField(m, "phones"),
			WhatsApps:       stringSliceField(m, "whatsapps"),
			XHandles:        stringSliceField(m, "twitter"),
			LinkedIns:       stringSliceField(m, "linkedin"),
			CrawledAt:       time.Now(),
			StatusCode:      intField(m, "status_code", 200),
			WordCount:       wordCount,
			Keywords:        utils.ExtractKeywords(text, 10),
			ReadingMinutes:  utils.CalculateReadingTime(wordCount),
		}
		for _, l := range linkSliceField(m, "links") {
			page.Links = append(page.Links, l)
		}
		result.Pages = append(result.Pages, page)

		if sub, err := registrableSubdomain(page.URL); err == nil && sub != "" && sub != domain {
			subdomains[sub] = true
		}
	}

	result.TotalPages = len(result.Pages)
	for sub := range subdomains {
		result.Subdomains = append(result.Subdomains, sub)
	}
	return result, nil
}

// registrableSubdomain reports pageURL's host if it is a strict
// subdomain of its own eTLD+1 (e.g. "blog.acme.com" under "acme.com"),
// using publicsuffix so multi-label public suffixes (".co.uk") are
// handled correctly instead of a naive dot-count heuristic.
func registrableSubdomain(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", pageURL)
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", err
	}
	if etld1 == host {
		return "", nil
	}
	return host, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

func stringSliceField(m map[string]any, key string) []string {
	v, ok := m[key].([]string)
	if ok {
		return v
	}
	if raw, ok := m[key].([]any); ok {
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func linkSliceField(m map[string]any, key string) []models.Link {
	raw, ok := m[key].([]models.Link)
	if ok {
		return raw
	}
	return nil
}
