package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webnovel"
	"github.com/fwojciec/webnovel/crawl"
	"github.com/fwojciec/webnovel/epub"
	"github.com/fwojciec/webnovel/fs"
	"github.com/fwojciec/webnovel/html"
	"github.com/fwojciec/webnovel/htmltomarkdown"
	wnhttp "github.com/fwojciec/webnovel/http"
	wnslog "github.com/fwojciec/webnovel/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Transport overrides the HTTP round tripper; nil uses the default.
	Transport http.RoundTripper
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webnovel"),
		kong.Description("Download a web novel into a single EPUB or markdown file"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	var logger *slog.Logger
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var fetcher webnovel.Fetcher = wnhttp.NewFetcher(
		wnhttp.WithTimeout(cli.Timeout),
		wnhttp.WithCourtesyDelay(cli.CourtesyDelay),
		wnhttp.WithBackoff(cli.Backoff),
		wnhttp.WithRetries(cli.Retries),
		wnhttp.WithUserAgent(cli.UserAgent),
		wnhttp.WithHTTPSOnly(cli.HTTPSOnly),
		wnhttp.WithTransport(m.Transport),
	)
	if logger != nil {
		fetcher = wnslog.NewLoggingFetcher(fetcher, logger)
	}
	if cli.CacheDir != "" {
		fetcher = fs.NewPageCache(fetcher, cli.CacheDir)
	}

	var assembler webnovel.Assembler
	switch cli.Format {
	case FormatMarkdown:
		assembler = fs.NewMarkdownAssembler(cli.OutputDir, htmltomarkdown.NewConverter())
	case FormatEPUB:
		assembler = epub.NewAssembler(cli.OutputDir)
	default:
		return fmt.Errorf("unknown format %q", cli.Format)
	}
	if logger != nil {
		assembler = wnslog.NewLoggingAssembler(assembler, logger)
	}

	deps.Crawler = &crawl.Crawler{
		Fetcher:   fetcher,
		Tokenizer: html.NewTokenizer(),
		Assembler: assembler,
	}

	cmd := &FetchCmd{
		URL:  cli.URL,
		List: cli.List,
	}

	return cmd.Run(deps)
}

// Output formats accepted by --format.
const (
	FormatEPUB     = "epub"
	FormatMarkdown = "markdown"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	OutputDir     string        `short:"o" default:"." env:"WEBNOVEL_OUTPUT_DIR" help:"Directory for the output file"`
	Format        string        `short:"f" enum:"epub,markdown" default:"epub" env:"WEBNOVEL_FORMAT" help:"Output format (epub, markdown)"`
	Timeout       time.Duration `short:"t" default:"10s" env:"WEBNOVEL_TIMEOUT" help:"Per-request timeout"`
	CourtesyDelay time.Duration `default:"900ms" env:"WEBNOVEL_COURTESY_DELAY" help:"Pause after every successful fetch"`
	Backoff       time.Duration `default:"3s" env:"WEBNOVEL_BACKOFF" help:"First wait after a 429 response, doubled on each retry"`
	Retries       int           `default:"3" env:"WEBNOVEL_RETRIES" help:"Retries allowed per URL on 429 responses"`
	UserAgent     string        `env:"WEBNOVEL_USER_AGENT" help:"User-Agent header sent with every request"`
	HTTPSOnly     bool          `name:"https-only" env:"WEBNOVEL_HTTPS_ONLY" help:"Refuse plain http URLs"`
	CacheDir      string        `env:"WEBNOVEL_CACHE_DIR" help:"Directory for cached pages; disabled when empty"`
	List          bool          `short:"l" env:"WEBNOVEL_LIST" help:"Print the listing without downloading chapters"`
	Debug         bool          `env:"WEBNOVEL_DEBUG" help:"Log fetches and assembly to stderr"`
	URL           string        `arg:"" required:"" help:"Listing page URL"`
}
