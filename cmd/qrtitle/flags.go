package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
)

// addFetchFlags registers the flags that control scanning and fetching.
func addFetchFlags(cmd *cobra.Command) {
	// Transport
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().StringP("proxy", "x", "",
		"Fetch through a SOCKS5 proxy at host:port (e.g. 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and fetch through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .qrtitle in current, XDG config or home directory)")

	// Scanner
	cmd.Flags().Bool("ask", false,
		"Ask for permission on the terminal before the first scan")
	cmd.Flags().Int("camera", 0,
		"Scan source index")
	cmd.Flags().String("prompt", config.DefaultPrompt,
		"Prompt shown while waiting for a scan (empty disables it)")
	cmd.Flags().Bool("no-beep", false,
		"Do not beep after a successful decode")
}

// addReportFlags registers the report output flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sources resolved concurrently")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("open", false,
		"Open each scanned URL in the default browser")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.LogFormatText
		}
	}
	return format
}

// buildConfig creates a Config from the command's flags and loads the
// configuration file. Report flags are read only when the command has them.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.AskPermission, err = flags.GetBool("ask"); err != nil {
		return nil, err
	}
	if cfg.CameraID, err = flags.GetInt("camera"); err != nil {
		return nil, err
	}
	if cfg.Prompt, err = flags.GetString("prompt"); err != nil {
		return nil, err
	}
	noBeep, err := flags.GetBool("no-beep")
	if err != nil {
		return nil, err
	}
	cfg.Beep = !noBeep

	if flags.Lookup("json") != nil {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
		if cfg.OpenURLs, err = flags.GetBool("open"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormatFlag(cmd)
	cfg.Targets = args

	if err := cfg.LoadHosts(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return cfg, nil
}
