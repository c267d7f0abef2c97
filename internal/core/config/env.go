package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ARROWSTYLE_[SECTION]_[KEY] (e.g., ARROWSTYLE_CACHE_PATH).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Concurrency, "ARROWSTYLE_CONCURRENCY")
	setEnvInt(&cfg.MaxFixPasses, "ARROWSTYLE_MAX_FIX_PASSES")

	// Cache
	if val, ok := os.LookupEnv("ARROWSTYLE_CACHE_ENABLED"); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", "ARROWSTYLE_CACHE_ENABLED", "value", val)
			cfg.Cache.Enabled = &b
		}
	}
	setEnvString(&cfg.Cache.Path, "ARROWSTYLE_CACHE_PATH")
	setEnvDuration(&cfg.Cache.BusyTimeout, "ARROWSTYLE_CACHE_BUSY_TIMEOUT")

	// Formatter
	setEnvDuration(&cfg.Formatter.Timeout, "ARROWSTYLE_FORMATTER_TIMEOUT")
	if val, ok := os.LookupEnv("ARROWSTYLE_FORMATTER_COMMAND"); ok {
		slog.Debug("applying env override", "key", "ARROWSTYLE_FORMATTER_COMMAND", "value", val)
		cfg.Formatter.Command = strings.Fields(val)
	}

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "ARROWSTYLE_WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "ARROWSTYLE_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "ARROWSTYLE_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
