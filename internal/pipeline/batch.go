package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// defaultConcurrency is the number of sources resolved at once.
const defaultConcurrency = 4

// Source is one scan source of a batch.
type Source struct {
	// Name identifies the source in reports (an image path or the payload).
	Name string
	// Scanner delivers the source's outcome.
	Scanner scanner.Scanner
}

// BatchProcessor resolves many sources concurrently, each on its own loop.
type BatchProcessor struct {
	runner      *Runner
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor that runs scans with runner.
func NewBatchProcessor(runner *Runner, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		runner:      runner,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch resolves all sources and returns their reports in source
// order. Every source gets a report; sources skipped because ctx ended carry
// the context error. The returned error is ctx's error, if any.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, sources []Source) ([]*model.ScanReport, error) {
	results := make([]*model.ScanReport, len(sources))
	err := bp.ProcessBatchWithCallback(ctx, sources, func(rep *model.ScanReport, i int) {
		results[i] = rep
	})
	return results, err
}

// ProcessBatchWithCallback resolves all sources and calls callback with each
// report and its source index as soon as it is ready. callback is called
// from worker goroutines, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	sources []Source,
	callback func(rep *model.ScanReport, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_sources", len(sources),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			bp.logger.Debug("scanning source",
				"source", src.Name,
				"index", i+1,
				"total", len(sources),
			)

			rep := bp.runner.ScanOnce(gctx, src.Name, src.Scanner)
			callback(rep, i)

			if rep.Error != "" {
				bp.logger.Warn("scan interrupted", "source", src.Name, "error", rep.Error)
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never fail; interruptions are recorded per report

	bp.logger.Info("batch processing complete",
		"total_sources", len(sources),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}
