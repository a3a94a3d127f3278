package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/scrapexdev/scrapex/internal/models"
	"github.com/scrapexdev/scrapex/pkg/utils"
)

// Analyzer performs SEO and content analysis
type Analyzer struct {
	config *Config
}

// Config holds analyzer configuration
type Config struct {
	EnableAI           bool
	OpenAIKey          string
	AnalyzePageRank    bool
	AnalyzeContent     bool
	AnalyzeTechnical   bool
	AnalyzePerformance bool
	AnalyzeSecurity    bool
}

// New creates a new Analyzer instance
func New() *Analyzer {
	return &Analyzer{
		config: &Config{
			AnalyzePageRank:    true,
			AnalyzeContent:     true,
			AnalyzeTechnical:   true,
			AnalyzePerformance: true,
			AnalyzeSecurity:    true,
		},
	}
}

// NewWithConfig creates an Analyzer with custom configuration
func NewWithConfig(config *Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze performs comprehensive SEO analysis on crawl results
func (a *Analyzer) Analyze(crawlResult *models.CrawlResult, full bool) (*models.SEOReport, error) {
	report := &models.SEOReport{
		Domain:      crawlResult.Domain,
		GeneratedAt: crawlResult.CrawlTime,
	}

	if a.config.AnalyzePageRank {
		a.calculatePageRank(crawlResult)
	}

	if a.config.AnalyzeContent {
		report.Scores.Content = a.analyzeContent(crawlResult)
	}

	if a.config.AnalyzeTechnical {
		report.Scores.Technical = a.analyzeTechnical(crawlResult)
	}

	if a.config.AnalyzePerformance {
		report.Scores.Performance = a.analyzePerformance(crawlResult)
	}

	if a.config.AnalyzeSecurity {
		report.Scores.Security = a.analyzeSecurity(crawlResult)
	}

	report.Scores.Overall = a.calculateOverallScore(report.Scores)

	report.KeyFindings = a.generateFindings(crawlResult)
	report.Recommendations = a.generateRecommendations(report.KeyFindings)

	report.ExecutiveSummary = a.generateExecutiveSummary(report)

	return report, nil
}

// calculatePageRank implements the PageRank algorithm over the crawl's
// link graph. Link endpoints are normalized with utils.NormalizeURL
// first, so "https://acme.test/about" and "https://acme.test/about/#top"
// contribute to the same node instead of splitting rank across two keys
// that are really the same page.
func (a *Analyzer) calculatePageRank(crawlResult *models.CrawlResult) {
	const (
		dampingFactor = 0.85
		iterations    = 100
	)

	linkGraph := make(map[string][]string)
	inboundLinks := make(map[string][]string)

	for _, page := range crawlResult.Pages {
		from := utils.NormalizeURL(page.URL)
		for _, link := range page.Links {
			to := utils.NormalizeURL(link.ToURL)
			linkGraph[from] = append(linkGraph[from], to)
			inboundLinks[to] = append(inboundLinks[to], from)
		}
	}

	pageCount := float64(len(crawlResult.Pages))
	if pageCount == 0 {
		return
	}

	pageRank := make(map[string]float64, len(crawlResult.Pages))
	for _, page := range crawlResult.Pages {
		pageRank[utils.NormalizeURL(page.URL)] = 1.0 / pageCount
	}

	for i := 0; i < iterations; i++ {
		newPageRank := make(map[string]float64, len(pageRank))

		for node := range pageRank {
			rank := (1.0 - dampingFactor) / pageCount
			for _, inbound := range inboundLinks[node] {
				if outboundCount := float64(len(linkGraph[inbound])); outboundCount > 0 {
					rank += dampingFactor * pageRank[inbound] / outboundCount
				}
			}
			newPageRank[node] = rank
		}

		pageRank = newPageRank
	}

	for i := range crawlResult.Pages {
		crawlResult.Pages[i].PageRank = pageRank[utils.NormalizeURL(crawlResult.Pages[i].URL)]
	}
}

// analyzeContent evaluates content quality from each page's title,
// description, and the word count build.go already derived via
// pkg/utils, so this never re-splits raw Text itself.
func (a *Analyzer) analyzeContent(crawlResult *models.CrawlResult) float64 {
	score := 0.0
	factors := 0

	for _, page := range crawlResult.Pages {
		if len(page.MetaTitle) > 0 && len(page.MetaTitle) <= 60 {
			score += 1.0
		} else if len(page.MetaTitle) > 0 {
			score += 0.5
		}
		factors++

		if len(page.MetaDescription) >= 120 && len(page.MetaDescription) <= 160 {
			score += 1.0
		} else if len(page.MetaDescription) > 0 {
			score += 0.5
		}
		factors++

		if page.WordCount >= 300 {
			score += 1.0
		} else if page.WordCount >= 100 {
			score += 0.5
		}
		factors++
	}

	if factors == 0 {
		return 0
	}
	return (score / float64(factors)) * 100
}

// analyzeTechnical evaluates technical SEO factors: duplicate titles,
// fetch failures, and malformed URLs. The URL-structure check scores
// every page with utils.IsValidURL rather than sampling a single one.
func (a *Analyzer) analyzeTechnical(crawlResult *models.CrawlResult) float64 {
	score := 0.0
	factors := 0

	titles := make(map[string]int)
	for _, page := range crawlResult.Pages {
		titles[page.MetaTitle]++
	}

	duplicateTitles := 0
	for _, count := range titles {
		if count > 1 {
			duplicateTitles++
		}
	}

	if duplicateTitles == 0 {
		score += 1.0
	} else {
		score += math.Max(0, 1.0-float64(duplicateTitles)/float64(len(titles)))
	}
	factors++

	brokenLinks := 0
	for _, page := range crawlResult.Pages {
		if page.StatusCode >= 400 {
			brokenLinks++
		}
	}

	if len(crawlResult.Pages) > 0 {
		if brokenLinks == 0 {
			score += 1.0
		} else {
			score += math.Max(0, 1.0-float64(brokenLinks)/float64(len(crawlResult.Pages)))
		}
		factors++
	}

	malformedURLs := 0
	for _, page := range crawlResult.Pages {
		if !utils.IsValidURL(page.URL) {
			malformedURLs++
		}
	}
	if len(crawlResult.Pages) > 0 {
		score += 1.0 - float64(malformedURLs)/float64(len(crawlResult.Pages))
		factors++
	}

	if factors == 0 {
		return 0
	}
	return (score / float64(factors)) * 100
}

// analyzePerformance evaluates site performance from crawl-observable
// signals only: page volume and contact-channel availability.
func (a *Analyzer) analyzePerformance(crawlResult *models.CrawlResult) float64 {
	score := 75.0

	if crawlResult.TotalPages > 1000 {
		score -= 10
	}

	for _, page := range crawlResult.Pages {
		if page.HasContactInfo() {
			score += 5
			break
		}
	}

	return math.Max(0, math.Min(100, score))
}

// analyzeSecurity scores HTTPS adoption and plaintext contact-channel
// exposure: pages without Emails/Phones/WhatsApps scattered in their
// rendered HTML are less harvestable by scrapers and spam bots.
func (a *Analyzer) analyzeSecurity(crawlResult *models.CrawlResult) float64 {
	score := 0.0
	factors := 0

	for _, page := range crawlResult.Pages {
		if page.IsSecure() {
			score += 1.0
		}
		factors++

		if page.HasContactInfo() {
			score += 0.5
		} else {
			score += 1.0
		}
		factors++
	}

	if factors == 0 {
		return 0
	}
	return (score / float64(factors)) * 100
}

// calculateOverallScore computes the weighted average of all scores
func (a *Analyzer) calculateOverallScore(scores models.OverallScores) float64 {
	weights := map[string]float64{
		"technical":   0.3,
		"content":     0.3,
		"performance": 0.2,
		"security":    0.2,
	}

	return scores.Technical*weights["technical"] +
		scores.Content*weights["content"] +
		scores.Performance*weights["performance"] +
		scores.Security*weights["security"]
}

// generateFindings creates a list of SEO findings
func (a *Analyzer) generateFindings(crawlResult *models.CrawlResult) []models.Finding {
	findings := []models.Finding{}

	missingDesc := 0
	for _, page := range crawlResult.Pages {
		if page.MetaDescription == "" {
			missingDesc++
		}
	}
	if missingDesc > 0 {
		findings = append(findings, models.Finding{
			Category:    "Content",
			Type:        "Missing Meta Descriptions",
			Description: fmt.Sprintf("%d pages lack meta descriptions", missingDesc),
			Severity:    "medium",
		})
	}

	titles := make(map[string][]string)
	for _, page := range crawlResult.Pages {
		titles[page.MetaTitle] = append(titles[page.MetaTitle], page.URL)
	}
	for title, urls := range titles {
		if len(urls) > 1 && title != "" {
			findings = append(findings, models.Finding{
				Category:    "Technical",
				Type:        "Duplicate Title",
				Description: fmt.Sprintf("Title '%s' used on %d pages", title, len(urls)),
				Severity:    "high",
			})
		}
	}

	thinContent := 0
	for _, page := range crawlResult.Pages {
		if page.WordCount < 100 {
			thinContent++
		}
	}
	if thinContent > 0 {
		findings = append(findings, models.Finding{
			Category:    "Content",
			Type:        "Thin Content",
			Description: fmt.Sprintf("%d pages have less than 100 words", thinContent),
			Severity:    "medium",
		})
	}

	insecure := 0
	for _, page := range crawlResult.Pages {
		if !page.IsSecure() {
			insecure++
		}
	}
	if insecure > 0 {
		findings = append(findings, models.Finding{
			Category:    "Security",
			Type:        "Insecure Pages",
			Description: fmt.Sprintf("%d pages are served without HTTPS", insecure),
			Severity:    "high",
		})
	}

	exposedContact := 0
	for _, page := range crawlResult.Pages {
		if page.HasContactInfo() {
			exposedContact++
		}
	}
	if exposedContact > 0 {
		findings = append(findings, models.Finding{
			Category:    "Security",
			Type:        "Exposed Contact Information",
			Description: fmt.Sprintf("%d pages expose raw email/phone/WhatsApp contacts in their HTML", exposedContact),
			Severity:    "low",
		})
	}

	return findings
}

// generateRecommendations creates actionable recommendations based on findings
func (a *Analyzer) generateRecommendations(findings []models.Finding) []models.Recommendation {
	recommendations := []models.Recommendation{}

	sort.Slice(findings, func(i, j int) bool {
		severityOrder := map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}
		return severityOrder[findings[i].Severity] < severityOrder[findings[j].Severity]
	})

	for _, finding := range findings {
		var rec models.Recommendation

		switch finding.Type {
		case "Missing Meta Descriptions":
			rec = models.Recommendation{
				Priority:    "high",
				Category:    "Content",
				Action:      "Add unique meta descriptions",
				Impact:      "high",
				Effort:      "low",
				Description: "Write unique, compelling meta descriptions (120-160 characters) for all pages",
			}
		case "Duplicate Title":
			rec = models.Recommendation{
				Priority:    "critical",
				Category:    "Technical",
				Action:      "Fix duplicate titles",
				Impact:      "high",
				Effort:      "low",
				Description: "Ensure each page has a unique, descriptive title tag",
			}
		case "Thin Content":
			rec = models.Recommendation{
				Priority:    "medium",
				Category:    "Content",
				Action:      "Expand content",
				Impact:      "medium",
				Effort:      "medium",
				Description: "Add more valuable, relevant content to pages with less than 300 words",
			}
		case "Insecure Pages":
			rec = models.Recommendation{
				Priority:    "critical",
				Category:    "Security",
				Action:      "Migrate remaining pages to HTTPS",
				Impact:      "high",
				Effort:      "medium",
				Description: "Serve every page over TLS; mixed HTTP/HTTPS content is penalized by search engines and browsers",
			}
		case "Exposed Contact Information":
			rec = models.Recommendation{
				Priority:    "low",
				Category:    "Security",
				Action:      "Obfuscate or gate plaintext contacts",
				Impact:      "low",
				Effort:      "low",
				Description: "Route emails and phone numbers through a contact form or obfuscate them to reduce scraper/spam harvesting",
			}
		default:
			continue
		}

		recommendations = append(recommendations, rec)
	}

	return recommendations
}

// generateExecutiveSummary creates a high-level summary
func (a *Analyzer) generateExecutiveSummary(report *models.SEOReport) models.ExecutiveSummary {
	summary := models.ExecutiveSummary{
		OverallScore: report.Scores.Overall,
	}

	switch {
	case summary.OverallScore >= 90:
		summary.OverallGrade = "A"
	case summary.OverallScore >= 80:
		summary.OverallGrade = "B"
	case summary.OverallScore >= 70:
		summary.OverallGrade = "C"
	case summary.OverallScore >= 60:
		summary.OverallGrade = "D"
	default:
		summary.OverallGrade = "F"
	}

	if report.Scores.Technical >= 80 {
		summary.Strengths = append(summary.Strengths, "Strong technical SEO foundation")
	}
	if report.Scores.Content >= 80 {
		summary.Strengths = append(summary.Strengths, "High-quality content optimization")
	}
	if report.Scores.Performance >= 80 {
		summary.Strengths = append(summary.Strengths, "Excellent site performance")
	}
	if report.Scores.Security >= 80 {
		summary.Strengths = append(summary.Strengths, "Solid HTTPS and contact-exposure posture")
	}

	if report.Scores.Technical < 60 {
		summary.Weaknesses = append(summary.Weaknesses, "Technical SEO issues need attention")
	}
	if report.Scores.Content < 60 {
		summary.Weaknesses = append(summary.Weaknesses, "Content optimization required")
	}
	if report.Scores.Performance < 60 {
		summary.Weaknesses = append(summary.Weaknesses, "Performance improvements needed")
	}
	if report.Scores.Security < 60 {
		summary.Weaknesses = append(summary.Weaknesses, "HTTPS coverage or contact exposure needs attention")
	}

	for i, rec := range report.Recommendations {
		if i >= 3 {
			break
		}
		summary.TopPriorities = append(summary.TopPriorities, rec.Action)
	}

	if len(report.Recommendations) > 0 {
		highPriority := 0
		for _, rec := range report.Recommendations {
			if rec.Priority == "critical" || rec.Priority == "high" {
				highPriority++
			}
		}
		if highPriority > 5 {
			summary.EstimatedImpact = "Significant improvements possible with focused effort"
		} else {
			summary.EstimatedImpact = "Moderate improvements achievable with targeted optimizations"
		}
	}

	return summary
}
