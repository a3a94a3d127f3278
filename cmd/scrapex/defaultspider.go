package main

import (
	"github.com/scrapexdev/scrapex/internal/models"
	"github.com/scrapexdev/scrapex/pkg/engine"
	"github.com/scrapexdev/scrapex/pkg/extractor"
	"github.com/scrapexdev/scrapex/pkg/response"
)

// defaultSpider is the generic engine.Spider behind `scrapex run` and
// `scrapex report`: it enriches each fetched page with the extractor
// package instead of running a sitemap rule tree, producing one flat
// record per seed URL.
type defaultSpider struct {
	extractor *extractor.Extractor
}

func newDefaultSpider() *defaultSpider {
	return &defaultSpider{extractor: extractor.New()}
}

func (s *defaultSpider) Parse(resp *response.Response, _ engine.State) (engine.Outcome, error) {
	content, err := s.extractor.Enrich(resp.Text(), resp.URL)
	if err != nil {
		return engine.Outcome{}, err
	}

	var links []models.Link
	for _, l := range content.Links {
		links = append(links, models.Link{ToURL: l.URL, AnchorText: l.AnchorText})
	}

	record := map[string]any{
		"url":         resp.URL,
		"title":       content.Title,
		"description": content.Description,
		"text":        content.Text,
		"emails":      content.Emails,
		"phones":      content.Phones,
		"twitter":     content.Twitter,
		"linkedin":    content.LinkedIn,
		"whatsapps":   content.WhatsApps,
		"links":       links,
		"status_code": 200,
	}
	return engine.OK(record), nil
}
