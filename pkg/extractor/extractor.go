// Package extractor pulls structured content — clean text, metadata,
// contact details, and outbound links — out of a fetched page. It backs
// the supplemental content/contact enrichment described in SPEC_FULL.md
// §8: the default `scrapex run` callback calls Enrich on every Response
// instead of leaving WebScraper's rule tree as the only way to get
// records out of a crawl.
package extractor

import (
	"regexp"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Extractor extracts structured content from a fetched page's HTML.
type Extractor struct {
	emailRegex    *regexp.Regexp
	phoneRegex    *regexp.Regexp
	twitterRegex  *regexp.Regexp
	linkedinRegex *regexp.Regexp
	whatsappRegex *regexp.Regexp
}

// New builds an Extractor with its regexes pre-compiled.
func New() *Extractor {
	return &Extractor{
		emailRegex:    regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phoneRegex:    regexp.MustCompile(`(?:\+?[1-9]\d{0,2}[\s.-]?)?\(?\d{1,4}\)?[\s.-]?\d{1,4}[\s.-]?\d{1,4}[\s.-]?\d{0,4}`),
		twitterRegex:  regexp.MustCompile(`(?:twitter\.com|x\.com)/([a-zA-Z0-9_]+)`),
		linkedinRegex: regexp.MustCompile(`linkedin\.com/in/([a-zA-Z0-9-]+)`),
		whatsappRegex: regexp.MustCompile(`(?:wa\.me|api\.whatsapp\.com/send\?phone=)/?([0-9]{6,15})`),
	}
}

// Link is an outbound hyperlink found on a page.
type Link struct {
	URL        string
	AnchorText string
}

// Content is everything Enrich pulls from one page.
type Content struct {
	Title       string
	Description string
	Text        string
	Emails      []string
	Phones      []string
	Twitter     []string
	LinkedIn    []string
	WhatsApps   []string
	Links       []Link
}

// Enrich runs every extraction against one page's HTML, relative to
// baseURL for link resolution.
func (e *Extractor) Enrich(htmlContent, baseURL string) (Content, error) {
	title, description, err := e.ExtractMetadata(htmlContent)
	if err != nil {
		return Content{}, err
	}
	text, err := e.ExtractText(htmlContent)
	if err != nil {
		return Content{}, err
	}
	links, err := e.ExtractLinks(htmlContent, baseURL)
	if err != nil {
		return Content{}, err
	}
	twitter, linkedin := e.ExtractSocialHandles(htmlContent)

	return Content{
		Title:       title,
		Description: description,
		Text:        text,
		Emails:      e.ExtractEmails(htmlContent),
		Phones:      e.ExtractPhones(htmlContent),
		Twitter:     twitter,
		LinkedIn:    linkedin,
		WhatsApps:   e.ExtractWhatsApps(htmlContent),
		Links:       links,
	}, nil
}

// ExtractText extracts clean body text via trafilatura's boilerplate
// removal, used instead of a raw strip-tags pass so nav/ad/footer noise
// doesn't leak into the record.
func (e *Extractor) ExtractText(htmlContent string) (string, error) {
	result, err := trafilatura.Extract(strings.NewReader(htmlContent), trafilatura.Options{})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.ContentText, nil
}

// ExtractMetadata pulls <title> and the description meta tag.
func (e *Extractor) ExtractMetadata(htmlContent string) (title, description string, err error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", err
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil {
					title = n.FirstChild.Data
				}
			case "meta":
				var isDescription bool
				var content string
				for _, attr := range n.Attr {
					if attr.Key == "name" && attr.Val == "description" {
						isDescription = true
					}
					if attr.Key == "content" {
						content = attr.Val
					}
				}
				if isDescription {
					description = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, description, nil
}

// ExtractEmails finds every email address in content.
func (e *Extractor) ExtractEmails(content string) []string {
	return uniqueStrings(e.emailRegex.FindAllString(content, -1))
}

// ExtractPhones finds every phone number in content, with separators
// stripped.
func (e *Extractor) ExtractPhones(content string) []string {
	matches := e.phoneRegex.FindAllString(content, -1)
	cleaned := make([]string, 0, len(matches))
	for _, match := range matches {
		cleaned = append(cleaned, cleanPhoneNumber(match))
	}
	return uniqueStrings(cleaned)
}

// ExtractSocialHandles finds Twitter/X and LinkedIn profile links.
func (e *Extractor) ExtractSocialHandles(content string) (twitter, linkedin []string) {
	for _, m := range e.twitterRegex.FindAllStringSubmatch(content, -1) {
		if len(m) > 1 {
			twitter = append(twitter, "@"+m[1])
		}
	}
	for _, m := range e.linkedinRegex.FindAllStringSubmatch(content, -1) {
		if len(m) > 1 {
			linkedin = append(linkedin, m[1])
		}
	}
	return uniqueStrings(twitter), uniqueStrings(linkedin)
}

// ExtractWhatsApps finds wa.me and api.whatsapp.com click-to-chat links
// and returns the phone numbers they encode.
func (e *Extractor) ExtractWhatsApps(content string) []string {
	var numbers []string
	for _, m := range e.whatsappRegex.FindAllStringSubmatch(content, -1) {
		if len(m) > 1 {
			numbers = append(numbers, m[1])
		}
	}
	return uniqueStrings(numbers)
}

// ExtractLinks extracts every <a href> on the page, resolved against
// baseURL. This resolver is intentionally distinct from
// response.Response.Join: Join preserves the WebScraper interpreter's
// naive, bit-for-bit concatenation rule, while this one does a
// best-effort normal resolution suited to building a general link graph.
func (e *Extractor) ExtractLinks(htmlContent, baseURL string) ([]Link, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
				}
			}
			if href != "" {
				links = append(links, Link{
					URL:        resolveURL(baseURL, href),
					AnchorText: strings.TrimSpace(textOf(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

func cleanPhoneNumber(phone string) string {
	for _, sep := range []string{" ", "-", "(", ")", "."} {
		phone = strings.ReplaceAll(phone, sep, "")
	}
	return phone
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var text string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text += textOf(c)
	}
	return text
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "/") {
		if idx := strings.Index(base, "://"); idx > 0 {
			if idx2 := strings.Index(base[idx+3:], "/"); idx2 > 0 {
				return base[:idx+3+idx2] + href
			}
			return base + href
		}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + href
}
