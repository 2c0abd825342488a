package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/podjson/pkg/config"
	"github.com/umputun/podjson/pkg/domain"
	"github.com/umputun/podjson/pkg/extras"
	"github.com/umputun/podjson/pkg/feed"
	"github.com/umputun/podjson/pkg/normalize"
	"github.com/umputun/podjson/pkg/output"
)

// Opts with all CLI options
type Opts struct {
	RSS       string        `long:"rss" env:"RSS_URL" description:"podcast feed url or local file"`
	Out       string        `short:"o" long:"out" env:"OUT_FILE" default:"episodes.json" description:"output json file"`
	Extras    string        `long:"extras" env:"EXTRAS_FILE" default:"extras_map.json" description:"per-episode extras, json or yaml"`
	Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"feed fetch timeout"`
	Retries   int           `long:"retries" env:"RETRIES" default:"1" description:"feed fetch attempts"`
	UserAgent string        `long:"user-agent" env:"USER_AGENT" default:"podjson/1.0" description:"user agent for feed requests"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug)
	log.Printf("[DEBUG] podjson version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	code, err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
	}
	os.Exit(code)
}

// run converts the feed to the output file and returns the process exit code,
// 0 if at least one episode was written
func run(ctx context.Context, opts Opts) (int, error) {
	var in config.Config
	in.Feed.URL = opts.RSS
	in.Feed.Timeout = opts.Timeout
	in.Feed.Retries = opts.Retries
	in.Feed.UserAgent = opts.UserAgent
	in.OutPath = opts.Out
	in.ExtrasPath = opts.Extras

	cfg, err := config.Build(in)
	if err != nil {
		return 1, fmt.Errorf("invalid configuration: %w", err)
	}

	extrasMap, err := extras.Load(cfg.ExtrasPath)
	if err != nil {
		log.Printf("[WARN] can't load extras, continue without them: %v", err)
		extrasMap = extras.New(nil)
	}
	log.Printf("[DEBUG] loaded %d extras from %s", extrasMap.Len(), cfg.ExtrasPath)

	var entries []domain.Entry
	fd, fetchErr := feed.NewParser(cfg.Feed.Timeout, cfg.Feed.UserAgent, cfg.Feed.Retries).Parse(ctx, cfg.Feed.URL)
	if fetchErr != nil {
		if errors.Is(fetchErr, context.Canceled) {
			return 1, fmt.Errorf("feed fetch canceled: %w", fetchErr)
		}
		log.Printf("[WARN] feed %s is not available: %v", cfg.Feed.URL, fetchErr)
	} else {
		entries = fd.Entries
		log.Printf("[INFO] feed %q has %d entries", fd.Title, len(entries))
	}

	episodes, stats := normalize.NewAssembler(extrasMap).Build(entries)
	if err := output.WriteJSON(cfg.OutPath, episodes); err != nil {
		return 1, fmt.Errorf("failed to save episodes: %w", err)
	}
	log.Printf("[INFO] saved %d episodes → %s", len(episodes), cfg.OutPath)

	if len(episodes) == 0 {
		switch {
		case fetchErr != nil:
			log.Printf("[WARN] no episodes, feed is not available")
		case stats.Total == 0:
			log.Printf("[WARN] no episodes, feed has no entries")
		default:
			log.Printf("[WARN] no episodes, all %d entries failed", stats.Total)
		}
		return 1, nil
	}

	if stats.Skipped > 0 {
		log.Printf("[WARN] %d of %d entries skipped", stats.Skipped, stats.Total)
	}
	latest := episodes[0]
	log.Printf("[INFO] latest episode: %s, %s", latest.Name, latest.Date)
	return 0, nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stdout), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
