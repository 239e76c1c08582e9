package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/qrtitle/internal/config"
	"github.com/nao1215/qrtitle/internal/dispatch"
	"github.com/nao1215/qrtitle/internal/fetch"
	qlog "github.com/nao1215/qrtitle/internal/log"
	"github.com/nao1215/qrtitle/internal/model"
	"github.com/nao1215/qrtitle/internal/permission"
	"github.com/nao1215/qrtitle/internal/pipeline"
	"github.com/nao1215/qrtitle/internal/report"
	"github.com/nao1215/qrtitle/internal/scanner"
	"github.com/nao1215/qrtitle/internal/transport"
)

// scanRuntime holds the wired components shared by the scanning commands.
type scanRuntime struct {
	cfg    *config.Config
	logger *slog.Logger
	gate   *permission.Gate
	runner *pipeline.Runner
	tor    *transport.EmbeddedTor
}

// newLogger returns the stderr logger in the format selected by cfg.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == config.LogFormatJSON {
		return qlog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	return qlog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// signalContext returns the command context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// newScanRuntime builds the transport, the permission gate and the runner.
// answers is where --ask reads the user's reply.
func newScanRuntime(ctx context.Context, cmd *cobra.Command, cfg *config.Config, answers io.Reader, logger *slog.Logger) (*scanRuntime, error) {
	rt := &scanRuntime{cfg: cfg, logger: logger}

	httpClient, err := rt.newHTTPClient(ctx, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	var requester permission.Requester = permission.Static{Granted: true}
	if cfg.AskPermission {
		requester = permission.NewPrompt(answers, cmd.ErrOrStderr(), "")
	}
	rt.gate = permission.NewGate(requester,
		permission.WithLogger(qlog.WithComponent(logger, "permission")),
	)

	state, err := rt.gate.Ensure(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if cfg.AskPermission {
		fmt.Fprintln(cmd.ErrOrStderr(), report.PermissionText(state))
	}
	if state != model.PermissionGranted {
		logger.Warn("scan permission denied; scans will not be launched")
	}

	fetchLogger := qlog.WithComponent(logger, "fetch")
	fetchers := func(p dispatch.Poster) pipeline.Fetcher {
		return fetch.NewFetcher(p,
			fetch.WithHTTPClient(httpClient),
			fetch.WithUserAgent(cfg.UserAgent),
			fetch.WithMaxBodySize(cfg.EffectiveMaxBodySize()),
			fetch.WithBaseContext(ctx),
			fetch.WithLogger(fetchLogger),
		)
	}

	rt.runner = pipeline.NewRunner(rt.gate, fetchers,
		pipeline.WithRunnerLogger(qlog.WithComponent(logger, "pipeline")),
		pipeline.WithRunnerScanOptions(scanOptions(cfg)),
	)

	return rt, nil
}

// newHTTPClient connects directly, through --proxy, or through an embedded
// Tor daemon, and verifies the proxy before any fetch.
func (rt *scanRuntime) newHTTPClient(ctx context.Context, status io.Writer) (*http.Client, error) {
	cfg := rt.cfg
	opts := []transport.Option{
		transport.WithHostRules(hostRules(cfg.Hosts)),
		transport.WithLogger(qlog.WithComponent(rt.logger, "transport")),
	}

	var (
		client *transport.Client
		err    error
	)
	if cfg.UseTor {
		fmt.Fprintln(status, "Starting embedded Tor daemon...")
		fmt.Fprintf(status, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

		rt.tor = transport.NewEmbeddedTor(
			transport.WithStartupTimeout(cfg.TorStartupTimeout),
			transport.WithTorLogger(qlog.WithComponent(rt.logger, "tor")),
		)
		if err := rt.tor.Start(ctx); err != nil {
			rt.tor = nil
			return nil, fmt.Errorf("failed to start embedded Tor: %w", err)
		}
		fmt.Fprintf(status, "SOCKS proxy: %s\n\n", rt.tor.SocksAddr())

		client, err = rt.tor.NewClient(cfg.Timeout, opts...)
	} else {
		client, err = transport.NewClient(cfg.ProxyAddress, cfg.Timeout, opts...)
	}
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create HTTP transport: %w", err)
	}

	if client.UsesProxy() {
		if st := client.CheckConnection(ctx); st != transport.ProxyStatusOK {
			rt.Close()
			return nil, fmt.Errorf("proxy check failed for %s: %w", client.ProxyAddress(), st.Error())
		}
		rt.logger.Info("proxy connection verified", "address", client.ProxyAddress())
	}

	return client.NewHTTPClient(), nil
}

// Close stops the embedded Tor daemon, if one was started.
func (rt *scanRuntime) Close() {
	if rt.tor == nil {
		return
	}
	if err := rt.tor.Stop(); err != nil {
		rt.logger.Error("failed to stop embedded Tor", "error", err)
	}
	rt.tor = nil
}

// hostRules adapts the configuration file to the transport's host rules.
func hostRules(file *config.File) transport.HostRules {
	return func(host string) transport.HostRule {
		hc := file.HostConfig(host)
		return transport.HostRule{
			Cookie:  hc.Cookie,
			Headers: hc.RequestHeaders(),
		}
	}
}

// scanOptions returns the scanner launch options selected by cfg.
func scanOptions(cfg *config.Config) scanner.Options {
	opts := scanner.DefaultOptions()
	opts.Prompt = cfg.Prompt
	opts.CameraID = cfg.CameraID
	opts.BeepOnSuccess = cfg.Beep
	return opts
}
