package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	coreapp "arrowstyle/internal/core/app"
	"arrowstyle/internal/core/config"
	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/data/cache"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/rules"
	"arrowstyle/internal/engine/rules/returnstyle"
	"arrowstyle/internal/shared/observability"
	"arrowstyle/internal/shared/version"
	"arrowstyle/internal/ui/report/formats"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func runLint(cmd *cobra.Command, opts lintOptions, args []string, s streams) (int, error) {
	format, err := formats.Parse(opts.format)
	if err != nil {
		return exitFatal, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return exitFatal, fmt.Errorf("detect working directory: %w", err)
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		return exitFatal, err
	}
	overrides, err := flagOverrides(cmd, opts)
	if err != nil {
		return exitFatal, err
	}
	overrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return exitFatal, err
	}

	paths, err := config.ResolvePaths(cfg, cfgPath, cwd)
	if err != nil {
		return exitFatal, fmt.Errorf("resolve runtime paths: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, version.Version)
	if err != nil {
		return exitFatal, err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	appOpts := []coreapp.Option{coreapp.WithConfigOverrides(overrides)}
	if !opts.stdin {
		resultCache, err := coreapp.OpenCache(cfg, paths)
		switch {
		case err != nil && cache.IsCorruptError(err):
			slog.Warn("result cache is corrupt; delete it to re-enable caching", "path", paths.CachePath, "error", err)
		case err != nil:
			slog.Warn("result cache unavailable", "path", paths.CachePath, "error", err)
		case resultCache != nil:
			appOpts = append(appOpts, coreapp.WithCache(resultCache))
		}
	}

	application, err := coreapp.New(cfg, paths, rules.NewRegistry(), appOpts...)
	if err != nil {
		return exitFatal, err
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Warn("shutdown failed", "error", err)
		}
	}()

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr, coreapp.NewHealthService(application))
		if err := server.Start(ctx); err != nil {
			return exitFatal, err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Stop(sctx); err != nil {
				slog.Warn("observability server shutdown failed", "error", err)
			}
		}()
	}

	printer := reportPrinter{
		out:    s.out,
		format: format,
		root:   cwd,
		metas:  ruleMetas(),
		diff:   opts.dryRun,
	}
	mode := lintMode(opts)

	if opts.stdin {
		return runStdin(ctx, application, opts, mode, printer, s)
	}

	req := ports.LintRequest{Paths: args, Mode: mode}
	if opts.watch {
		err := application.Watch(ctx, req, func(report ports.LintReport) {
			if err := printer.print(report); err != nil {
				slog.Error("failed to print report", "error", err)
			}
		})
		if err != nil {
			return exitFatal, err
		}
		return exitOK, nil
	}

	report, err := application.Lint(ctx, req)
	if err != nil {
		return exitFatal, err
	}
	if err := printer.print(report); err != nil {
		return exitFatal, err
	}
	slog.Debug("lint finished",
		"run", report.RunID,
		"files", len(report.Files),
		"cache_hits", report.CacheHits,
		"problems", report.Problems(),
		"fixed", report.Fixed(),
		"duration", report.Duration,
	)
	return exitCode(report), nil
}

// runStdin lints a single buffer. With --fix the fixed source is written to
// stdout and the remaining problems go to stderr.
func runStdin(ctx context.Context, application *coreapp.App, opts lintOptions, mode ports.Mode, printer reportPrinter, s streams) (int, error) {
	content, err := io.ReadAll(s.in)
	if err != nil {
		return exitFatal, fmt.Errorf("read stdin: %w", err)
	}
	res, err := application.LintSource(ctx, opts.stdinFilename, content, mode)
	if err != nil {
		return exitFatal, err
	}
	report := ports.LintReport{Files: []ports.FileResult{res}}

	if opts.fix {
		output := content
		if res.Changed {
			output = res.Output
		}
		if _, err := s.out.Write(output); err != nil {
			return exitFatal, err
		}
		printer.out = s.err
		res.Changed = false
		report.Files[0] = res
	}
	if err := printer.print(report); err != nil {
		return exitFatal, err
	}
	return exitCode(report), nil
}

type reportPrinter struct {
	out    io.Writer
	format formats.Format
	root   string
	metas  []lint.Meta
	diff   bool
}

func (p reportPrinter) print(report ports.LintReport) error {
	if p.diff && p.format == formats.FormatStylish {
		if err := formats.WriteDiff(p.out, p.root, report); err != nil {
			return err
		}
	}
	return formats.Write(p.out, p.format, p.root, p.metas, report)
}

func exitCode(report ports.LintReport) int {
	if report.Problems() > 0 {
		return exitProblems
	}
	return exitOK
}

func lintMode(opts lintOptions) ports.Mode {
	switch {
	case opts.fix:
		return ports.ModeFix
	case opts.dryRun:
		return ports.ModeDryRun
	default:
		return ports.ModeCheck
	}
}

func ruleMetas() []lint.Meta {
	all := rules.Builtin()
	metas := make([]lint.Meta, 0, len(all))
	for _, r := range all {
		metas = append(metas, r.Meta())
	}
	return metas
}

// loadConfig loads an explicit config file, or discovers one from cwd. The
// returned path is empty when the defaults are used.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cfg, found, err := config.Discover(cwd)
	if err != nil {
		return nil, "", err
	}
	if found != "" {
		slog.Debug("using config file", "path", found)
	}
	return cfg, found, nil
}

// flagOverrides returns a function applying environment variables and then
// command-line flags to a config. Flags win over both the file and the
// environment.
func flagOverrides(cmd *cobra.Command, opts lintOptions) (func(*config.Config), error) {
	toggles, err := parseRuleToggles(opts.rules)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool)
	for _, name := range rules.NewRegistry().Names() {
		known[name] = true
	}
	for name := range toggles {
		if !known[name] {
			return nil, errors.AddContext(errors.Newf(errors.CodeNotFound, "unknown rule %q", name), errors.CtxRule, name)
		}
	}
	changed := cmd.Flags().Changed

	return func(cfg *config.Config) {
		config.ApplyEnvOverrides(cfg)
		for name, enabled := range toggles {
			cfg.SetRuleEnabled(name, enabled)
		}
		if changed("max-len") {
			cfg.SetRuleOption(returnstyle.RuleName, returnstyle.OptMaxLen, opts.maxLen)
		}
		if changed("concurrency") {
			cfg.Concurrency = opts.concurrency
			if cfg.Concurrency <= 0 {
				cfg.Concurrency = runtime.GOMAXPROCS(0)
			}
		}
		if opts.noCache {
			disabled := false
			cfg.Cache.Enabled = &disabled
		}
		if opts.metricsAddr != "" {
			cfg.Observability.MetricsAddr = opts.metricsAddr
		}
		if opts.otlpEndpoint != "" {
			cfg.Observability.OTLPEndpoint = opts.otlpEndpoint
		}
	}, nil
}
