package utils

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// stopWords holds the words ExtractKeywords and RemoveStopWords ignore
// when scoring a page's content for SEO purposes.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"that": true, "the": true, "to": true, "was": true, "will": true, "with": true,
	"this": true, "but": true, "they": true, "have": true, "had": true,
	"were": true, "been": true, "their": true, "she": true, "which": true, "do": true,
	"or": true, "if": true, "not": true, "what": true, "there": true, "can": true,
	"out": true, "up": true, "one": true, "about": true, "more": true, "so": true,
	"said": true, "when": true, "some": true, "into": true, "them": true, "then": true,
	"two": true, "how": true, "her": true, "than": true, "first": true, "way": true,
	"even": true, "back": true, "any": true, "over": true, "where": true, "just": true,
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	invalidFileRe = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// CleanText collapses interior whitespace runs to a single space and
// trims the result, the shape BuildCrawlResult stores a Page's Text in.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// WordCount is the word count CalculateReadingTime and the analyzer's
// content scoring derive from — computed once per page
// in BuildCrawlResult and carried on models.Page rather than re-split
// from raw text at every call site.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// RemoveStopWords lowercases text, strips edge punctuation from each
// token, and drops anything in stopWords.
func RemoveStopWords(text string) string {
	words := strings.Fields(strings.ToLower(text))
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"")
		if word != "" && !stopWords[word] {
			filtered = append(filtered, word)
		}
	}

	return strings.Join(filtered, " ")
}

// ExtractKeywords ranks text's non-stop-word tokens (length > 2) by
// frequency and returns the top limit, most frequent first.
func ExtractKeywords(text string, limit int) []string {
	cleaned := RemoveStopWords(text)

	counts := make(map[string]int)
	for _, word := range strings.Fields(cleaned) {
		word = strings.Trim(word, ".,!?;:'\"")
		if len(word) > 2 {
			counts[word]++
		}
	}

	type scoredWord struct {
		word  string
		count int
	}
	ranked := make([]scoredWord, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, scoredWord{word, count})
	}
	for i := range ranked {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].count > ranked[i].count {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}

	if limit > len(ranked) {
		limit = len(ranked)
	}
	keywords := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		keywords = append(keywords, ranked[i].word)
	}
	return keywords
}

// TruncateText truncates text to at most maxLength bytes, backing off to
// the last word boundary and appending an ellipsis.
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}

	truncated := text[:maxLength]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// NormalizeURL canonicalizes rawURL for deduplication purposes: a
// lowercase host, no fragment, and no trailing slash on the path. It
// parses with net/url rather than slicing the string by hand, so
// userinfo, IPv6 hosts, and query strings survive untouched; malformed
// input is returned as-is.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// IsValidURL reports whether rawURL parses as an absolute http(s) URL
// with a non-empty host, using net/url instead of a hand-rolled regex so
// the check matches what the rest of the module actually does with a URL.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SanitizeFilename replaces filesystem-hostile characters with
// underscores, drops control runes, and truncates to 255 bytes, for turning a report
// domain into a safe default output filename.
func SanitizeFilename(filename string) string {
	filename = invalidFileRe.ReplaceAllString(filename, "_")
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, filename)

	if len(cleaned) > 255 {
		cleaned = cleaned[:255]
	}
	return cleaned
}

// GetDomainFromURL returns rawURL's lowercase hostname, stripping any
// port. An unparseable rawURL yields an empty string.
func GetDomainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// CalculateReadingTime estimates reading time in whole minutes at 200
// words per minute, rounding down, with a minimum of one minute.
func CalculateReadingTime(wordCount int) int {
	const wordsPerMinute = 200
	minutes := wordCount / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
