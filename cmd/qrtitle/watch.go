package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	qlog "github.com/nao1215/qrtitle/internal/log"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/report"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Resolve payloads read from stdin, one scan per line",
		Long: `Watch reads decoded QR payloads from standard input, one per line, and
prints the displayed URL and title every time they change.

Each line starts a new scan right away, so several fetches may be in
flight at once. Only the answer for the most recently scanned URL is ever
shown. An empty line is reported as "No URL to open". Watch ends at the
end of input once the last fetch has answered, or on Ctrl-C.

Examples:
  # Pipe a decoder into qrtitle
  zbarcam --raw | qrtitle watch

  # Type payloads by hand, asking for permission first
  qrtitle watch --ask`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	addFetchFlags(cmd)

	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Interactive = true

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg)

	ctx, stop := signalContext(cmd)
	defer stop()

	// The permission answer and the payloads share stdin.
	in := bufio.NewReader(cmd.InOrStdin())

	rt, err := newScanRuntime(ctx, cmd, cfg, in, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	sc := scanner.NewTextScanner(in,
		scanner.WithTextPrompt(cmd.ErrOrStderr()),
		scanner.WithTextLogger(qlog.WithComponent(logger, "scanner")),
	)

	out := cmd.OutOrStdout()
	var last string
	err = rt.runner.Watch(ctx, sc, func(s model.Snapshot) {
		line := report.FormatSnapshot(s)
		if line == "" || line == last {
			return
		}
		last = line
		fmt.Fprintln(out, line)
	})

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	default:
		return fmt.Errorf("watch stopped: %w", err)
	}
}
