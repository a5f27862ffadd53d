package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/fs"
	"github.com/fwojciec/olxscrape/goquery"
	olxhttp "github.com/fwojciec/olxscrape/http"
	"github.com/fwojciec/olxscrape/prometheus"
	"github.com/fwojciec/olxscrape/scrape"
	olxslog "github.com/fwojciec/olxscrape/slog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMain()

	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		fmt.Fprintln(os.Stderr, "Stopping after the current request (interrupt again to abort)")
		m.Stop.Stop()
		<-sigc
		cancel()
	}()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stop is flipped by the first interrupt. The pipeline checks it between
	// pages and between detail fetches.
	Stop *StopFlag

	// Transport overrides the default browser profile. Used by tests.
	Transport *olxscrape.TransportConfig
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stop: &StopFlag{},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("olxscrape"),
		kong.Description("Extract listings from OLX search results"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'olxscrape --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	transport := olxscrape.DefaultTransportConfig()
	if m.Transport != nil {
		transport = *m.Transport
	}

	deps.Metrics = prometheus.NewMetrics()

	// Both fetchers share one connection pool and keep their own timeouts.
	client := &http.Client{}
	listFetcher := m.fetcher(deps, olxhttp.NewFetcher(transport,
		olxhttp.WithClient(client),
		olxhttp.WithTimeout(transport.ListTimeout),
	), prometheus.KindList)
	defer listFetcher.Close()
	detailFetcher := m.fetcher(deps, olxhttp.NewFetcher(transport,
		olxhttp.WithClient(client),
		olxhttp.WithTimeout(transport.DetailTimeout),
	), prometheus.KindDetail)
	defer detailFetcher.Close()

	listings, err := goquery.NewListingExtractor(cli.BaseURL)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", olxscrape.ErrorMessage(err))
		return err
	}

	var details olxscrape.DetailEnricher = goquery.NewDetailExtractor(detailFetcher, goquery.WithLogger(deps.Logger))
	details = olxslog.NewLoggingDetailEnricher(details, deps.Logger)

	console := NewConsoleProgress(stdout, m.Stop)
	var progress olxscrape.Progress = deps.Metrics.WrapProgress(console)
	if cli.Verbose {
		progress = olxslog.NewLoggingProgress(progress, deps.Logger)
	}

	deps.Session = &scrape.Session{
		Scraper:     goquery.NewPageScraper(listFetcher, listings, deps.Logger),
		Details:     details,
		Progress:    progress,
		Logger:      deps.Logger,
		PagePacer:   scrape.NewThrottle(cli.PageDelay),
		SearchPacer: scrape.NewThrottle(cli.SearchDelay),
		DetailPacer: scrape.NewThrottle(cli.DetailDelay),
		BaseURL:     cli.BaseURL,
	}
	deps.Writer = fs.NewWriter(cli.Output, cli.Prefix)

	runErr := kongCtx.Run(deps)

	if cli.MetricsFile != "" {
		if err := deps.Metrics.WriteTextfile(cli.MetricsFile); err != nil {
			deps.Logger.Warn("failed to write metrics", "path", cli.MetricsFile, "err", err)
		}
	}

	return runErr
}

// fetcher stacks the metrics and logging decorators over f.
func (m *Main) fetcher(deps *Dependencies, f olxscrape.Fetcher, kind string) olxscrape.Fetcher {
	return olxslog.NewLoggingFetcher(deps.Metrics.WrapFetcher(f, kind), deps.Logger)
}
