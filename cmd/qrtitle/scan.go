package main

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
	qlog "github.com/nao1215/qrtitle/internal/log"
	"github.com/nao1215/qrtitle/internal/pipeline"
	"github.com/nao1215/qrtitle/internal/scanner"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Decode QR codes from images and show the linked page titles",
		Long: `Scan decodes the QR code in each image (PNG, JPEG or GIF), normalizes the
payload into a URL and fetches the page title.

Images without a readable QR code are reported as cancelled scans.
Several images are resolved concurrently (see --batch).

With --camera N only the N-th image (counting from 0) is scanned.

Examples:
  # Resolve one code
  qrtitle scan poster.png

  # Resolve many codes and write a Markdown report
  qrtitle scan --markdown -o report.md codes/*.png

  # Fetch through Tor
  qrtitle scan --tor flyer.jpg`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	addFetchFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	return runBatch(cmd, args, imageSources)
}

// imageSources scans each image on its own, or only the selected one when
// --camera was given.
func imageSources(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) []pipeline.Source {
	opts := []scanner.ImageOption{
		scanner.WithPromptWriter(cmd.ErrOrStderr()),
		scanner.WithImageLogger(qlog.WithComponent(logger, "scanner")),
	}

	if cmd.Flags().Changed("camera") {
		name := "camera " + strconv.Itoa(cfg.CameraID)
		if cfg.CameraID < len(cfg.Targets) {
			name = cfg.Targets[cfg.CameraID]
		}
		return []pipeline.Source{{
			Name:    name,
			Scanner: scanner.NewImageScanner(cfg.Targets, opts...),
		}}
	}

	// Without --camera the index is 0, the only image of each scanner.
	sources := make([]pipeline.Source, len(cfg.Targets))
	for i, path := range cfg.Targets {
		sources[i] = pipeline.Source{
			Name:    path,
			Scanner: scanner.NewImageScanner([]string{path}, opts...),
		}
	}
	return sources
}
