package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
	"github.com/nao1215/qrtitle/internal/pipeline"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <payload>...",
		Short: "Resolve already-decoded QR payloads to page titles",
		Long: `Resolve treats each argument as the text of a decoded QR code, for
example the output of another scanner, and fetches the page title.

Examples:
  # Bare hosts are opened over https
  qrtitle resolve example.com

  # JSON report for several payloads
  qrtitle resolve --json https://go.dev http://neverssl.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runResolveCmd,
	}

	addFetchFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

func runResolveCmd(cmd *cobra.Command, args []string) error {
	return runBatch(cmd, args, payloadSources)
}

func payloadSources(_ *cobra.Command, cfg *config.Config, _ *slog.Logger) []pipeline.Source {
	sources := make([]pipeline.Source, len(cfg.Targets))
	for i, payload := range cfg.Targets {
		sources[i] = pipeline.Source{
			Name:    payload,
			Scanner: scanner.Fixed(payload),
		}
	}
	return sources
}
