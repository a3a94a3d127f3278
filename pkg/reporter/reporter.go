// Package reporter formats an *analyzer.Analyzer's SEOReport as JSON,
// HTML, or Markdown — the supplemental SEO analysis suite described in
// SPEC_FULL.md §8, consuming whatever an Engine or WebScraper crawl
// exported.
package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/scrapexdev/scrapex/internal/models"
)

// Reporter formats an SEOReport.
type Reporter struct{}

// New builds a Reporter.
func New() *Reporter {
	return &Reporter{}
}

// GenerateSEOReport formats report in the given format: "json", "html",
// or "markdown".
func (r *Reporter) GenerateSEOReport(report *models.SEOReport, format string) (string, error) {
	switch format {
	case "json", "":
		return r.generateJSON(report)
	case "html":
		return r.generateHTML(report)
	case "markdown":
		return r.generateMarkdown(report)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) generateJSON(report *models.SEOReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

var htmlTemplate = template.Must(template.New("report").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>SEO Report - {{.Domain}}</title>
  <style>
    body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 2rem; color: #222; }
    .score-card { border: 1px solid #ddd; border-radius: 8px; padding: 1.5rem; margin-bottom: 1.5rem; }
    .score-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; }
    .score-item { text-align: center; }
    .score-value { font-size: 2rem; font-weight: bold; }
    .finding { border-left: 4px solid #999; padding: 0.75rem 1rem; margin: 0.75rem 0; }
    .finding.high { border-left-color: #c0392b; }
    .finding.medium { border-left-color: #d4a017; }
    .finding.low { border-left-color: #27ae60; }
  </style>
</head>
<body>
  <h1>SEO Report for {{.Domain}}</h1>
  <p>Generated {{.GeneratedAt.Format "January 2, 2006"}}</p>

  <div class="score-card">
    <h2>Executive Summary — Grade {{.ExecutiveSummary.OverallGrade}}</h2>
    <div class="score-grid">
      <div class="score-item"><div class="score-value">{{printf "%.0f" .Scores.Technical}}</div>Technical</div>
      <div class="score-item"><div class="score-value">{{printf "%.0f" .Scores.Content}}</div>Content</div>
      <div class="score-item"><div class="score-value">{{printf "%.0f" .Scores.Performance}}</div>Performance</div>
      <div class="score-item"><div class="score-value">{{printf "%.0f" .Scores.Security}}</div>Security</div>
      <div class="score-item"><div class="score-value">{{printf "%.0f" .Scores.Overall}}</div>Overall</div>
    </div>
    {{if .ExecutiveSummary.Strengths}}<h3>Strengths</h3><ul>{{range .ExecutiveSummary.Strengths}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{if .ExecutiveSummary.Weaknesses}}<h3>Weaknesses</h3><ul>{{range .ExecutiveSummary.Weaknesses}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>

  {{if .KeyFindings}}
  <div class="score-card">
    <h2>Key Findings</h2>
    {{range .KeyFindings}}<div class="finding {{.Severity}}"><h4>{{.Type}}</h4><p>{{.Description}}</p></div>{{end}}
  </div>
  {{end}}

  {{if .Recommendations}}
  <div class="score-card">
    <h2>Recommendations</h2>
    {{range .Recommendations}}<div><strong>[{{.Priority}}]</strong> {{.Action}} — {{.Description}}</div>{{end}}
  </div>
  {{end}}
</body>
</html>
`))

func (r *Reporter) generateHTML(report *models.SEOReport) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

func (r *Reporter) generateMarkdown(report *models.SEOReport) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# SEO Report for %s\n\n", report.Domain)
	fmt.Fprintf(&buf, "*Generated on %s*\n\n", report.GeneratedAt.Format("January 2, 2006"))

	fmt.Fprintf(&buf, "## Executive Summary\n\n")
	fmt.Fprintf(&buf, "**Overall Grade:** %s (%.0f/100)\n\n",
		report.ExecutiveSummary.OverallGrade, report.ExecutiveSummary.OverallScore)

	fmt.Fprintf(&buf, "| Metric | Score |\n|---|---|\n")
	fmt.Fprintf(&buf, "| Technical | %.0f |\n", report.Scores.Technical)
	fmt.Fprintf(&buf, "| Content | %.0f |\n", report.Scores.Content)
	fmt.Fprintf(&buf, "| Performance | %.0f |\n", report.Scores.Performance)
	fmt.Fprintf(&buf, "| Security | %.0f |\n", report.Scores.Security)
	fmt.Fprintf(&buf, "| **Overall** | **%.0f** |\n\n", report.Scores.Overall)

	if len(report.ExecutiveSummary.Strengths) > 0 {
		fmt.Fprintf(&buf, "### Strengths\n\n")
		for _, s := range report.ExecutiveSummary.Strengths {
			fmt.Fprintf(&buf, "- %s\n", s)
		}
		buf.WriteByte('\n')
	}
	if len(report.ExecutiveSummary.Weaknesses) > 0 {
		fmt.Fprintf(&buf, "### Weaknesses\n\n")
		for _, w := range report.ExecutiveSummary.Weaknesses {
			fmt.Fprintf(&buf, "- %s\n", w)
		}
		buf.WriteByte('\n')
	}

	if len(report.KeyFindings) > 0 {
		fmt.Fprintf(&buf, "## Key Findings\n\n")
		for _, f := range report.KeyFindings {
			fmt.Fprintf(&buf, "### %s\n- **Category:** %s\n- **Severity:** %s\n- %s\n\n",
				f.Type, f.Category, f.Severity, f.Description)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(&buf, "## Recommendations\n\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(&buf, "%d. **[%s] %s** — %s\n", i+1, rec.Priority, rec.Action, rec.Description)
		}
	}

	return buf.String(), nil
}
