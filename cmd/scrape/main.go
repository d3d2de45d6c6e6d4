package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/franmoretti/pricewatch/internal/browser"
	"github.com/franmoretti/pricewatch/internal/config"
	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/progress"
	"github.com/franmoretti/pricewatch/internal/runner"
	"github.com/franmoretti/pricewatch/internal/scrape"
	"github.com/franmoretti/pricewatch/pkg/logger"
)

// One-shot scraper: runs a batch over sources given on the command
// line or in a file, without the server or the database. Progress
// goes to stderr, outcomes as JSON to stdout. Useful for checking a
// site's selectors.
func main() {
	var (
		rawURL     = flag.String("url", "", "Product URL to scrape")
		sourceType = flag.String("type", "", "Source type (sporting, tiendariver, dia, coto, solofutbol)")
		inputFile  = flag.String("file", "", "File with one source per line: \"<type> <url>\"")
		headless   = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	registry := scrape.DefaultRegistry()

	sources, err := collectSources(*sourceType, *rawURL, *inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintf(os.Stderr, "usage: scrape -type <type> -url <url> | scrape -file <sources.txt>\n")
		fmt.Fprintf(os.Stderr, "known types: %s\n", strings.Join(registry.Types(), ", "))
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("shutdown signal received")
		cancel()
	}()

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		NavTimeout:     cfg.Browser.NavTimeout,
		SettleWait:     cfg.Browser.SettleWait,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
		TimezoneID:     cfg.Browser.TimezoneID,
		ScreenshotDir:  cfg.Browser.ScreenshotDir,
	})
	if err != nil {
		lg.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	hub := progress.NewHub(lg)
	id, events := hub.Subscribe()
	defer hub.Unsubscribe(id)
	go func() {
		for ev := range events {
			fmt.Fprintln(os.Stderr, ev.Message)
		}
	}()

	outcomes, err := runner.NewBatchRunner(registry, b, hub, nil, nil, lg).Run(ctx, sources)
	if err != nil {
		lg.Error("batch aborted", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcomes); err != nil {
		lg.Error("failed to encode outcomes", "error", err)
		os.Exit(1)
	}

	for _, o := range outcomes {
		if o.Status == models.OutcomeError {
			os.Exit(1)
		}
	}
}

// collectSources builds the batch from either the single -type/-url
// pair or a file with one "<type> <url>" pair per line. Blank lines
// and #-comments are skipped.
func collectSources(sourceType, rawURL, inputFile string) ([]models.Source, error) {
	if inputFile == "" {
		if sourceType == "" || rawURL == "" {
			return nil, fmt.Errorf("either -file or both -type and -url are required")
		}
		return []models.Source{{Name: rawURL, Type: sourceType, URL: rawURL}}, nil
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open sources file: %w", err)
	}
	defer f.Close()

	var sources []models.Source
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"<type> <url>\", got %q", line, text)
		}
		name := fields[1]
		if len(fields) > 2 {
			name = strings.Join(fields[2:], " ")
		}
		sources = append(sources, models.Source{Name: name, Type: fields[0], URL: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources found in %s", inputFile)
	}

	return sources, nil
}
