package models

import "time"

// Page is one crawled URL's enriched record — the shape BuildCrawlResult
// assembles from an Engine/WebScraper export and the Analyzer consumes
// for scoring. WordCount, Keywords and ReadingMinutes are derived from
// Text once in BuildCrawlResult via pkg/utils, so the analyzer scores
// against them directly instead of re-splitting Text at every step.
type Page struct {
	URL             string    `json:"url"`
	Text            string    `json:"text"`
	Links           []Link    `json:"links"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	Emails          []string  `json:"emails"`
	Phones          []string  `json:"phones"`
	WhatsApps       []string  `json:"whatsapps"`
	XHandles        []string  `json:"x_handles"`
	LinkedIns       []string  `json:"linkedins"`
	CrawledAt       time.Time `json:"crawled_at"`
	StatusCode      int       `json:"status_code"`
	PageRank        float64   `json:"pagerank"`
	WordCount       int       `json:"word_count"`
	Keywords        []string  `json:"keywords"`
	ReadingMinutes  int       `json:"reading_minutes"`
}

// HasContactInfo reports whether the page exposes any contact channel
// (email address, phone number, or WhatsApp number) the security dimension scores exposure
// risk against.
func (p Page) HasContactInfo() bool {
	return len(p.Emails) > 0 || len(p.Phones) > 0 || len(p.WhatsApps) > 0
}

// IsSecure reports whether the page was served over HTTPS.
func (p Page) IsSecure() bool {
	return len(p.URL) > 8 && p.URL[:8] == "https://"
}

// Link represents a hyperlink from one page to another.
type Link struct {
	ToURL      string `json:"to_url"`
	AnchorText string `json:"anchor_text"`
}

// CrawlResult aggregates every Page crawled for a domain in one cycle.
type CrawlResult struct {
	Domain     string    `json:"domain"`
	Pages      []Page    `json:"pages"`
	TotalPages int       `json:"total_pages"`
	CrawlTime  time.Time `json:"crawl_time"`
	ErrorCount int       `json:"error_count"`
	Subdomains []string  `json:"subdomains"`
}

// SEOReport represents a comprehensive SEO analysis report
type SEOReport struct {
	Domain           string           `json:"domain"`
	GeneratedAt      time.Time        `json:"generated_at"`
	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`
	Scores           OverallScores    `json:"scores"`
	KeyFindings      []Finding        `json:"key_findings"`
	Recommendations  []Recommendation `json:"recommendations"`
	DataSources      []string         `json:"data_sources"`
}

// ExecutiveSummary provides high-level SEO insights
type ExecutiveSummary struct {
	OverallGrade    string   `json:"overall_grade"`
	OverallScore    float64  `json:"overall_score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	TopPriorities   []string `json:"top_priorities"`
	EstimatedImpact string   `json:"estimated_impact"`
}

// OverallScores contains various SEO metric scores
type OverallScores struct {
	Technical   float64 `json:"technical"`
	Content     float64 `json:"content"`
	Performance float64 `json:"performance"`
	Security    float64 `json:"security"`
	Overall     float64 `json:"overall"`
}

// Finding represents an SEO issue or observation
type Finding struct {
	Category    string `json:"category"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Details     string `json:"details,omitempty"`
}

// Recommendation represents an actionable SEO improvement
type Recommendation struct {
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Action      string `json:"action"`
	Impact      string `json:"impact"`
	Effort      string `json:"effort"`
	Description string `json:"description"`
}
