package main

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
	qlog "github.com/nao1215/qrtitle/internal/log"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/pipeline"
)

// sourceBuilder turns the validated configuration into batch sources.
type sourceBuilder func(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) []pipeline.Source

// runBatch resolves every source built from args and writes one report.
func runBatch(cmd *cobra.Command, args []string, build sourceBuilder) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg)

	ctx, stop := signalContext(cmd)
	defer stop()

	rt, err := newScanRuntime(ctx, cmd, cfg, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	sources := build(cmd, cfg, logger)
	bp := pipeline.NewBatchProcessor(rt.runner,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(qlog.WithComponent(logger, "batch")),
	)

	reports := make([]*model.ScanReport, len(sources))
	var (
		mu   sync.Mutex
		done int
	)
	status := cmd.ErrOrStderr()
	batchErr := bp.ProcessBatchWithCallback(ctx, sources, func(rep *model.ScanReport, i int) {
		mu.Lock()
		defer mu.Unlock()

		reports[i] = rep
		done++
		if len(sources) > 1 {
			fmt.Fprintf(status, "[%d/%d] %s\n", done, len(sources), rep.Source)
		}
	})

	if err := writeReports(cmd, cfg, reports); err != nil {
		return err
	}
	if cfg.OpenURLs {
		openReports(reports, browser.OpenURL, logger)
	}
	return batchErr
}
