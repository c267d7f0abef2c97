package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/data/cache"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/shared/observability"
	"arrowstyle/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var _ ports.LintService = (*App)(nil)

// Lint scans req.Paths and lints every file, fanning out over
// Config.Concurrency workers. Per-file failures are reported in the file's
// result; only scan failures and cancellation fail the whole request.
func (a *App) Lint(ctx context.Context, req ports.LintRequest) (ports.LintReport, error) {
	started := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "app.lint", trace.WithAttributes(
		attribute.Int("paths", len(req.Paths)),
	))
	defer span.End()

	files, err := a.Scan(req.Paths)
	if err != nil {
		return ports.LintReport{}, errors.AddContext(err, errors.CtxOperation, "scan")
	}
	report, err := a.lintFiles(ctx, files, req.Mode)
	if err != nil {
		return report, err
	}
	report.Duration = time.Since(started)
	report.Warnings = a.Warnings()
	span.SetAttributes(attribute.Int("files", len(files)), attribute.Int("problems", report.Problems()))

	if a.cache != nil {
		id, err := a.cache.RecordRun(cache.Run{
			StartedAt: started,
			Duration:  report.Duration,
			Files:     len(report.Files),
			Problems:  report.Problems(),
			Fixed:     report.Fixed(),
			CacheHits: report.CacheHits,
		})
		if err != nil {
			slog.Warn("failed to record run", "error", err)
		}
		report.RunID = id
	}
	return report, nil
}

func (a *App) lintFiles(ctx context.Context, files []string, mode ports.Mode) (ports.LintReport, error) {
	a.mu.RLock()
	limit := a.Config.Concurrency
	a.mu.RUnlock()

	results := make([]ports.FileResult, len(files))
	var hits atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.lintPath(gctx, path, mode)
			if results[i].Cached {
				hits.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ports.LintReport{}, err
	}
	return ports.LintReport{Files: results, CacheHits: int(hits.Load())}, nil
}

func (a *App) lintPath(ctx context.Context, path string, mode ports.Mode) ports.FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return ports.FileResult{Path: path, Err: err}
	}

	linter, _, hash := a.current()
	key := cache.Key{Path: path, ContentHash: cache.HashContent(content), ConfigHash: hash}
	a.remember(path, key.ContentHash)

	if mode == ports.ModeCheck && a.cache != nil {
		if entry, ok, err := a.cache.Lookup(key); err != nil {
			slog.Warn("cache lookup failed", "path", path, "error", err)
		} else if ok {
			res := ports.FileResult{Path: path, Diagnostics: entry.Diagnostics, Cached: true}
			if entry.ParseError != "" {
				res.ParseError = errors.New(errors.CodeParse, entry.ParseError)
			}
			return res
		}
	}

	res := a.run(ctx, linter, lint.File{Path: path, Content: content}, mode)
	res.Path = path

	if mode == ports.ModeCheck && a.cache != nil && res.Err == nil {
		entry := cache.Entry{Diagnostics: res.Diagnostics}
		if res.ParseError != nil {
			entry.ParseError = parseMessage(res.ParseError)
		}
		if err := a.cache.Put(key, entry); err != nil {
			slog.Warn("cache store failed", "path", path, "error", err)
		}
	}

	if mode == ports.ModeFix && res.Changed {
		if err := util.ReplaceFileContents(path, res.Output); err != nil {
			res.Err = fmt.Errorf("write fixed file: %w", err)
			return res
		}
		a.remember(path, cache.HashContent(res.Output))
		if a.cache != nil {
			if err := a.cache.Invalidate(path); err != nil {
				slog.Debug("cache invalidate failed", "path", path, "error", err)
			}
		}
	}
	return res
}

// LintSource lints a buffer that has no file on disk, such as stdin.
// filename is only used for language detection and export naming.
func (a *App) LintSource(ctx context.Context, filename string, content []byte, mode ports.Mode) (ports.FileResult, error) {
	if filename == "" {
		filename = "stdin.tsx"
	}
	if !a.Parser.IsSupportedPath(filename) {
		return ports.FileResult{}, errors.AddContext(errors.Newf(errors.CodeNotSupported, "unsupported file type %q", filename), errors.CtxPath, filename)
	}
	if mode == ports.ModeFix {
		mode = ports.ModeDryRun
	}
	linter, _, _ := a.current()
	res := a.run(ctx, linter, lint.File{Filename: filename, Content: content}, mode)
	res.Path = filename
	return res, res.Err
}

// run lints or fixes one buffer. Parse errors are kept on the result rather
// than returned.
func (a *App) run(ctx context.Context, linter *lint.Linter, f lint.File, mode ports.Mode) ports.FileResult {
	if mode == ports.ModeCheck {
		diags, err := linter.Lint(ctx, f)
		return classify(ports.FileResult{Diagnostics: diags}, err)
	}

	fixed, err := linter.Fix(ctx, f)
	res := ports.FileResult{
		Diagnostics: fixed.Remaining,
		Original:    f.Content,
		Output:      fixed.Output,
		Changed:     fixed.Changed,
		Passes:      fixed.Passes,
		Applied:     fixed.Applied,
	}
	return classify(res, err)
}

func classify(res ports.FileResult, err error) ports.FileResult {
	switch {
	case err == nil:
	case errors.IsCode(err, errors.CodeParse):
		res.ParseError = err
	default:
		res.Err = err
	}
	return res
}

func parseMessage(err error) string {
	var de *errors.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

func (a *App) remember(path, hash string) {
	a.seenMu.Lock()
	a.seen[path] = hash
	a.seenMu.Unlock()
}

// unchanged reports whether path still has the content this app last saw.
func (a *App) unchanged(path string, content []byte) bool {
	a.seenMu.Lock()
	defer a.seenMu.Unlock()
	prev, ok := a.seen[path]
	return ok && prev == cache.HashContent(content)
}
