package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"arrowstyle/internal/core/config"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/core/watcher"
)

// Watch lints req once, then re-lints changed files until ctx is done.
// Files whose content matches what this app last linted or wrote are
// skipped, so fixes written in ModeFix do not trigger another round. When
// the config was loaded from a file, edits to it rebuild the rule set and
// re-lint everything.
func (a *App) Watch(ctx context.Context, req ports.LintRequest, onReport func(ports.LintReport)) error {
	report, err := a.Lint(ctx, req)
	if err != nil {
		return err
	}
	onReport(report)

	roots := req.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}

	a.mu.RLock()
	debounce, exclude := a.Config.Watch.Debounce, a.Config.Exclude
	a.mu.RUnlock()

	w, err := watcher.NewWatcher(debounce, exclude, func(paths []string) {
		a.handleChanges(ctx, paths, req.Mode, onReport)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetExtensions(a.Parser.Loader().SupportedExtensions())
	if err := w.Watch(roots); err != nil {
		return err
	}

	if a.Paths.ConfigFile != "" {
		cw := config.NewWatcher(a.Paths.ConfigFile, func(cfg *config.Config) {
			if err := a.Reload(cfg); err != nil {
				slog.Warn("config reload rejected", "error", err)
				return
			}
			w.SetDebounce(cfg.Watch.Debounce)
			a.forgetAll()
			report, err := a.Lint(ctx, req)
			if err != nil {
				slog.Warn("re-lint after config change failed", "error", err)
				return
			}
			onReport(report)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "path", a.Paths.ConfigFile, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	slog.Info("watching for changes", "paths", roots, "debounce", debounce)
	<-ctx.Done()
	return nil
}

func (a *App) handleChanges(ctx context.Context, paths []string, mode ports.Mode, onReport func(ports.LintReport)) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	_, session, _ := a.current()

	changed := make([]string, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			a.forget(path)
			if a.cache != nil {
				_ = a.cache.Invalidate(path)
			}
			continue
		}
		if a.unchanged(path, content) {
			continue
		}
		session.Forget(path)
		changed = append(changed, path)
	}
	if len(changed) == 0 {
		return
	}

	report, err := a.lintFiles(ctx, changed, mode)
	if err != nil {
		slog.Warn("re-lint failed", "error", err)
		return
	}
	report.Duration = time.Since(started)
	onReport(report)
}

func (a *App) forget(path string) {
	a.seenMu.Lock()
	delete(a.seen, path)
	a.seenMu.Unlock()
}

func (a *App) forgetAll() {
	a.seenMu.Lock()
	a.seen = make(map[string]string)
	a.seenMu.Unlock()
}
