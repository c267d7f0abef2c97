package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesLintedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arrowstyle_files_linted_total",
		Help: "Total number of files linted, by grammar.",
	}, []string{"language"})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arrowstyle_parse_errors_total",
		Help: "Total number of files skipped because they failed to parse.",
	})

	LintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arrowstyle_lint_seconds",
		Help:    "Time spent linting (and fixing) one file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arrowstyle_diagnostics_total",
		Help: "Total number of reported problems, by rule and message id.",
	}, []string{"rule", "message_id"})

	FixesAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arrowstyle_fixes_applied_total",
		Help: "Total number of edit sets applied, by rule.",
	}, []string{"rule"})

	FixPasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arrowstyle_fix_passes",
		Help:    "Number of lint passes needed to reach a fixed point.",
		Buckets: []float64{1, 2, 3, 4, 5, 10},
	})

	FormatterRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arrowstyle_formatter_requests_total",
		Help: "External formatter lookups, by result (ok, cache_hit, fallback).",
	}, []string{"result"})

	FormatterRestartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arrowstyle_formatter_restarts_total",
		Help: "Total number of formatter worker process starts.",
	})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arrowstyle_cache_lookups_total",
		Help: "Lint result cache lookups, by result (hit, miss).",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arrowstyle_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
