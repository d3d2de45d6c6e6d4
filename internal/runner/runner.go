package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/franmoretti/pricewatch/internal/metrics"
	"github.com/franmoretti/pricewatch/internal/models"
	"github.com/franmoretti/pricewatch/internal/progress"
	"github.com/franmoretti/pricewatch/internal/scrape"
)

// ErrBatchRunning is returned when a batch is requested while another
// one is still in flight.
var ErrBatchRunning = errors.New("a scrape batch is already running")

// RecordStore persists successful extractions. Implemented by the
// Postgres store; a nil store disables persistence.
type RecordStore interface {
	SaveRecord(ctx context.Context, record *models.ScrapedRecord) error
}

// BatchRunner walks a list of sources sequentially, scraping each one
// through the shared browser and emitting progress events as it goes.
// One failing source never aborts the batch.
type BatchRunner struct {
	registry *scrape.Registry
	sessions scrape.SessionFactory
	hub      *progress.Hub
	store    RecordStore
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewBatchRunner(
	registry *scrape.Registry,
	sessions scrape.SessionFactory,
	hub *progress.Hub,
	store RecordStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BatchRunner {
	return &BatchRunner{
		registry: registry,
		sessions: sessions,
		hub:      hub,
		store:    store,
		metrics:  m,
		logger:   logger.With("component", "batch_runner"),
	}
}

// Running reports whether a batch is currently in flight.
func (r *BatchRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Run scrapes every source in order and returns one outcome per
// source, in input order. Only one batch runs at a time; a concurrent
// call fails fast with ErrBatchRunning. Cancelling the context stops
// the batch between sources, returning the outcomes gathered so far
// along with the context error.
func (r *BatchRunner) Run(ctx context.Context, sources []models.Source) ([]models.Outcome, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBatchRunning
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	total := len(sources)
	r.logger.Info("starting scrape batch", "total", total)
	r.hub.Publish(progress.Started(total))

	outcomes := make([]models.Outcome, 0, total)
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch cancelled", "completed", len(outcomes), "total", total)
			return outcomes, err
		}

		r.hub.Publish(progress.Progress(i+1, total, source.Name))

		outcome := r.scrapeSource(ctx, source)
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case models.OutcomeSuccess:
			r.hub.Publish(progress.Success(source.Name, outcome.Data))
		case models.OutcomeError:
			r.hub.Publish(progress.Failure(source.Name, outcome.Err))
		}
	}

	r.hub.Publish(progress.Completed(outcomes))
	r.metrics.ObserveBatch(time.Since(start))
	r.logger.Info("scrape batch finished",
		"total", total, "duration", time.Since(start).String())
	return outcomes, nil
}

// scrapeSource handles one source end to end: resolve the extractor,
// open a session, extract, persist. Every failure is folded into an
// error outcome so the batch keeps moving.
func (r *BatchRunner) scrapeSource(ctx context.Context, source models.Source) models.Outcome {
	logger := r.logger.With("source", source.Name, "type", source.Type)
	start := time.Now()

	extractor, err := r.registry.Resolve(source.Type)
	if err != nil {
		logger.Error("no extractor for source type", "error", err)
		r.metrics.IncScrape(source.Type, "unknown_type")
		return errorOutcome(source, err)
	}

	policy := scrape.NoRetry
	if retryable, ok := extractor.(scrape.Retryable); ok {
		policy = retryable.RetryPolicy()
	}

	var result *models.ExtractionResult
	attempt := 0
	err = scrape.WithRetry(ctx, policy, func() error {
		attempt++
		if attempt > 1 {
			logger.Warn("retrying scrape", "attempt", attempt)
			r.metrics.IncRetry(source.Type)
		}
		extracted, scrapeErr := r.scrapeOnce(ctx, extractor, source.URL)
		if scrapeErr != nil {
			return scrapeErr
		}
		result = extracted
		return nil
	})

	r.metrics.ObserveScrape(source.Type, time.Since(start))
	if err != nil {
		logger.Error("scrape failed", "error", err, "attempts", attempt)
		r.metrics.IncScrape(source.Type, "error")
		return errorOutcome(source, err)
	}

	logger.Info("scrape succeeded",
		"name", result.Name, "price", result.Price, "attempts", attempt)
	r.metrics.IncScrape(source.Type, "success")

	if r.store != nil {
		record := &models.ScrapedRecord{
			ID:        uuid.New().String(),
			ProductID: source.ProductID,
			SourceID:  source.ID,
			Name:      result.Name,
			Price:     result.Price,
			Image:     result.Image,
			URL:       result.URL,
			ScrapedAt: time.Now().UTC(),
		}
		if err := r.store.SaveRecord(ctx, record); err != nil {
			logger.Error("failed to persist record", "error", err)
			return errorOutcome(source, fmt.Errorf("failed to persist record: %w", err))
		}
	}

	return models.Outcome{Source: source, Status: models.OutcomeSuccess, Data: result}
}

// scrapeOnce is one full attempt: navigate, extract, release the
// session. The session is closed on every exit path.
func (r *BatchRunner) scrapeOnce(ctx context.Context, extractor scrape.Extractor, url string) (*models.ExtractionResult, error) {
	session, err := r.sessions.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.logger.Warn("failed to close session", "error", cerr)
		}
	}()

	return extractor.Extract(ctx, session)
}

func errorOutcome(source models.Source, err error) models.Outcome {
	return models.Outcome{Source: source, Status: models.OutcomeError, Err: err.Error()}
}
