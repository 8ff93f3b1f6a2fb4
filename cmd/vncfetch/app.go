package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/vncfetch/internal/config"
	"github.com/nao1215/vncfetch/internal/history"
	"github.com/nao1215/vncfetch/internal/log"
	"github.com/nao1215/vncfetch/internal/report"
	"github.com/nao1215/vncfetch/internal/resolver"
	"github.com/nao1215/vncfetch/internal/shell"
	"github.com/nao1215/vncfetch/internal/spinner"
)

// app bundles what a fetch-and-export command needs.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	client    *resolver.Client
	exporter  *report.Exporter
	runs      *history.RunDB
}

// newApp loads the configuration and builds the logger, client, exporter
// and run journal for cmd.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, logCloser, err := log.NewLogger(log.Options{
		Writer:   cmd.ErrOrStderr(),
		Verbose:  cfg.Verbose,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	opts := []resolver.Option{
		resolver.WithTimeout(cfg.Timeout),
		resolver.WithUserAgent(cfg.UserAgent),
		resolver.WithMaxBodySize(cfg.MaxBodySize),
		resolver.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, resolver.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	client, err := resolver.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		client:    client,
		exporter: report.NewExporter(
			report.WithImageFetcher(client),
			report.WithImageDir(cfg.ImageDir),
			report.WithSkipFailedImages(cfg.SkipFailedImages),
			report.WithExporterLogger(logger),
		),
	}

	// The journal is optional; a broken database never blocks an export.
	if cfg.History {
		runs, err := history.Open(cfg.DBDir, history.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "dir", cfg.DBDir, "error", err)
		} else {
			a.runs = runs
		}
	}

	logger.Debug("configuration loaded",
		"config", cfg.ConfigFilePath,
		"baseURL", cfg.BaseURL,
		"outputDir", cfg.OutputDir,
		"proxy", cfg.ProxyAddress,
		"history", a.runs != nil,
	)

	return a, nil
}

// Close releases the run journal and the log file.
func (a *app) Close() {
	if a.runs != nil {
		if err := a.runs.Close(); err != nil {
			a.logger.Warn("failed to close history database", "error", err)
		}
	}
	_ = a.logCloser.Close()
}

// newShell creates a session on in and out.
func (a *app) newShell(in io.Reader, out io.Writer) *shell.Shell {
	opts := []shell.Option{
		shell.WithSpinner(spinner.New(out, spinner.WithInterval(a.cfg.SpinnerInterval))),
		shell.WithOutputDir(a.cfg.OutputDir),
		shell.WithLogger(a.logger),
	}
	if a.runs != nil {
		opts = append(opts, shell.WithRecorder(a.runs))
	}
	return shell.New(in, out, a.client, a.exporter, opts...)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func (a *app) signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			a.logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
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

// getStringFlag retrieves a string flag from the command or its parent.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// buildConfig loads the configuration and applies the global flags.
// Flags win over the environment, which wins over the config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getStringFlag(cmd, "config"))
	if err != nil {
		return nil, err
	}

	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}
	if dir := getStringFlag(cmd, "output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	return cfg, nil
}
