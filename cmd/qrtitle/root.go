package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
)

// NewRootCmd creates the root command for qrtitle.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrtitle",
		Short: "Scan QR codes and show the title of the linked page",
		Long: `qrtitle decodes QR codes, normalizes the payload into a URL and fetches
the title of the page it points to.

Payloads without an http:// or https:// scheme are opened as https://.
Fetches run in the background; when a new code is scanned before the
previous page has answered, the late answer is discarded.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.LogFormatText, "Log format on stderr: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
