package ports

import (
	"context"
	"time"

	"arrowstyle/internal/data/cache"
	"arrowstyle/internal/engine/lint"
)

// ResultCache abstracts persistence of per-file lint results and run summaries.
type ResultCache interface {
	Lookup(key cache.Key) (cache.Entry, bool, error)
	Put(key cache.Key, entry cache.Entry) error
	Invalidate(path string) error
	RecordRun(run cache.Run) (string, error)
	Stats() (results, runs int, err error)
	Close() error
}

// Mode selects what a lint request does with fixes.
type Mode int

const (
	// ModeCheck reports problems only.
	ModeCheck Mode = iota
	// ModeFix writes fixed output back to disk.
	ModeFix
	// ModeDryRun computes fixed output without writing it.
	ModeDryRun
)

// LintRequest defines which files to lint and how.
type LintRequest struct {
	Paths []string
	Mode  Mode
}

// FileResult is the outcome for one file. Original and Output are only set
// when fixes were computed.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	ParseError  error
	Err         error
	Original    []byte
	Output      []byte
	Changed     bool
	Passes      int
	Applied     int
	Cached      bool
}

// LintReport summarizes a lint request.
type LintReport struct {
	RunID     string
	Files     []FileResult
	Duration  time.Duration
	CacheHits int
	Warnings  []string
}

// Problems counts remaining diagnostics plus files that failed to parse.
func (r LintReport) Problems() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
		if f.ParseError != nil || f.Err != nil {
			n++
		}
	}
	return n
}

// Fixed counts files whose content changed.
func (r LintReport) Fixed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// LintService is the driving port used by the CLI.
type LintService interface {
	Lint(ctx context.Context, req LintRequest) (LintReport, error)
	LintSource(ctx context.Context, filename string, content []byte, mode Mode) (FileResult, error)
	Watch(ctx context.Context, req LintRequest, onReport func(LintReport)) error
	Close() error
}
