// Command scrapex is the CLI front end for the Engine, WebScraper
// interpreter, and SEO analysis suite.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrapexdev/scrapex/internal/config"
	"github.com/scrapexdev/scrapex/internal/logging"
	"github.com/scrapexdev/scrapex/pkg/analyzer"
	"github.com/scrapexdev/scrapex/pkg/engine"
	"github.com/scrapexdev/scrapex/pkg/extractor"
	"github.com/scrapexdev/scrapex/pkg/htmlclient"
	"github.com/scrapexdev/scrapex/pkg/reporter"
	"github.com/scrapexdev/scrapex/pkg/utils"
	"github.com/scrapexdev/scrapex/pkg/webscraper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "scrapex",
	Short:   "scrapex - a spider runtime and SEO analysis suite",
	Long:    `scrapex runs a periodic crawl engine and declarative sitemap interpreter, and turns their output into SEO reports.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func newClient() htmlclient.Client {
	return htmlclient.New(htmlclient.Options{
		UserAgent:   cfg.Client.UserAgent,
		Timeout:     cfg.Client.Timeout,
		BodyTimeout: cfg.Client.BodyTimeout,
	})
}

var runCmd = &cobra.Command{
	Use:   "run [URL...]",
	Short: "Crawl one or more seed URLs with the default content extractor",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := crawlOnce(args)
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

var sitemapCmd = &cobra.Command{
	Use:   "sitemap [FILE]",
	Short: "Run the WebScraper interpreter against a sitemap JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read sitemap: %w", err)
		}
		sm, err := webscraper.ParseSitemap(data)
		if err != nil {
			return err
		}

		client := newClient()
		spider, err := webscraper.New(sm, client)
		if err != nil {
			return err
		}

		e := engine.New(spider, engine.Options{
			Name:     cfg.Engine.Name,
			URLs:     spider.StartURLs(),
			Interval: 0,
			Timeout:  cfg.Engine.Timeout,
		}, client, logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty}))

		if err := e.Start(nil); err != nil {
			return fmt.Errorf("start engine: %w", err)
		}
		defer e.Stop(nil)

		out, err := e.Export(engine.FormatNone, false)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return printJSON(out)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [URL...]",
	Short: "Crawl the given URLs and generate an SEO report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		domain, _ := cmd.Flags().GetString("domain")
		if format == "" {
			format = cfg.Report.Format
		}
		if domain == "" {
			domain = utils.GetDomainFromURL(urls[0])
		}

		records, err := crawlOnce(urls)
		if err != nil {
			return err
		}

		crawlResult, err := reporter.BuildCrawlResult(domain, records)
		if err != nil {
			return fmt.Errorf("build crawl result: %w", err)
		}

		a := analyzer.New()
		seoReport, err := a.Analyze(crawlResult, true)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}

		r := reporter.New()
		rendered, err := r.GenerateSEOReport(seoReport, format)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if output == "" && format != "json" {
			output = utils.SanitizeFilename(domain) + "-seo-report." + format
		}
		if output != "" {
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("Report saved to %s\n", output)
			return nil
		}
		fmt.Println(rendered)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [URL]",
	Short: "Fetch a single URL and print its content signals (keywords, reading time, contacts)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		res, err := client.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}

		ext := extractor.New()
		content, err := ext.Enrich(string(res.Body), res.FinalURL)
		if err != nil {
			return fmt.Errorf("enrich: %w", err)
		}

		summary := map[string]any{
			"url":          res.FinalURL,
			"title":        content.Title,
			"description":  content.Description,
			"keywords":     utils.ExtractKeywords(content.Text, 10),
			"reading_time": utils.CalculateReadingTime(utils.WordCount(content.Text)),
			"emails":       content.Emails,
			"phones":       content.Phones,
			"link_count":   len(content.Links),
		}
		return printJSON(summary)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path")

	reportCmd.Flags().String("format", "", "Report format (json, html, markdown); defaults to config")
	reportCmd.Flags().String("output", "", "Output file for the report")
	reportCmd.Flags().String("domain", "", "Domain the report is for; defaults to the first seed URL's host")

	rootCmd.AddCommand(runCmd, sitemapCmd, reportCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// crawlOnce runs a one-shot (Interval: 0) Engine crawl over urls using
// the default extractor-backed Spider and returns the exported records.
func crawlOnce(urls []string) ([]any, error) {
	client := newClient()
	spider := newDefaultSpider()

	e := engine.New(spider, engine.Options{
		Name:     cfg.Engine.Name,
		URLs:     urls,
		Interval: 0,
		Timeout:  cfg.Engine.Timeout,
	}, client, logging.New(logging.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty}))

	if err := e.Start(nil); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	defer e.Stop(nil)

	out, err := e.Export(engine.FormatNone, false)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	records, _ := out.([]any)
	return records, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
