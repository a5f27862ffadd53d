package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/prometheus"
	"github.com/fwojciec/olxscrape/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Session *scrape.Session
	Writer  olxscrape.ListingWriter
	Metrics *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Output      string        `short:"o" default:"." env:"OLXSCRAPE_OUTPUT" help:"Directory for result files"`
	Prefix      string        `default:"olx" env:"OLXSCRAPE_PREFIX" help:"File name prefix for result files"`
	BaseURL     string        `name:"base-url" default:"https://www.olx.pl" env:"OLXSCRAPE_BASE_URL" help:"Marketplace root for links and searches"`
	MetricsFile string        `name:"metrics-file" env:"OLXSCRAPE_METRICS_FILE" help:"Write Prometheus metrics to this textfile after the run"`
	Verbose     bool          `short:"v" env:"OLXSCRAPE_VERBOSE" help:"Log every request"`
	PageDelay   time.Duration `name:"page-delay" default:"2s" env:"OLXSCRAPE_PAGE_DELAY" help:"Delay between result pages"`
	SearchDelay time.Duration `name:"search-delay" default:"1s" env:"OLXSCRAPE_SEARCH_DELAY" help:"Delay between keyword search pages"`
	DetailDelay time.Duration `name:"detail-delay" default:"3s" env:"OLXSCRAPE_DETAIL_DELAY" help:"Delay between listing pages"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape listings from a search results URL"`
	Search  SearchCmd  `cmd:"" help:"Search listings by keyword"`
	Collect CollectCmd `cmd:"" help:"Collect a target number of listings, topping up from a backup URL"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string `arg:"" help:"Search results URL"`
	MaxPages    int    `short:"p" name:"max-pages" default:"20" env:"OLXSCRAPE_MAX_PAGES" help:"Maximum number of result pages"`
	Details     bool   `short:"d" help:"Also fetch listing pages for detailed records"`
	MaxDetailed int    `name:"max-detailed" default:"50" env:"OLXSCRAPE_MAX_DETAILED" help:"Maximum number of listings to fetch details for"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search keywords"`
	Location string `short:"l" help:"Location path segment, e.g. warszawa"`
	MaxPages int    `short:"p" name:"max-pages" default:"5" help:"Maximum number of result pages"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct {
	URL      string `arg:"" help:"Primary search results URL"`
	Backup   string `short:"b" env:"OLXSCRAPE_BACKUP_URL" help:"Backup search results URL used to reach the target"`
	MaxPages int    `short:"p" name:"max-pages" default:"20" env:"OLXSCRAPE_MAX_PAGES" help:"Maximum number of result pages per URL"`
	Target   int    `short:"t" default:"300" env:"OLXSCRAPE_TARGET" help:"Number of listings to collect (0 for no limit)"`
}
