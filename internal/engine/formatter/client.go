package formatter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/shared/observability"
	"arrowstyle/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result is a formatted rendering. Fallback is set when the worker could
// not be used and the fields were computed from the input itself.
type Result struct {
	Formatted   string
	IsMultiline bool
	LineLength  int
	Fallback    bool
	Err         error
}

// Client memoizes worker results per (code, file path, config override).
type Client struct {
	worker Worker

	mu    sync.Mutex
	cache map[string]Result
}

func NewClient(w Worker) *Client {
	if w == nil {
		w = Disabled{}
	}
	return &Client{worker: w, cache: make(map[string]Result)}
}

// Enabled reports whether a real worker is attached.
func (c *Client) Enabled() bool {
	_, disabled := c.worker.(Disabled)
	return !disabled
}

func (c *Client) Format(ctx context.Context, code, filePath string, override map[string]any) Result {
	if filePath == "" {
		filePath = "file.ts"
	}
	key := cacheKey(code, filePath, override)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		observability.FormatterRequestsTotal.WithLabelValues("cache_hit").Inc()
		return cached
	}
	c.mu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "formatter.format", trace.WithAttributes(
		attribute.String("file", filePath),
		attribute.Int("code.length", len(code)),
	))
	defer span.End()

	result := c.format(ctx, code, filePath, override)
	if result.Fallback {
		observability.FormatterRequestsTotal.WithLabelValues("fallback").Inc()
		span.SetAttributes(attribute.Bool("fallback", true))
		slog.Debug("formatter fallback", "file", filePath, "error", result.Err)
	} else {
		observability.FormatterRequestsTotal.WithLabelValues("ok").Inc()
	}

	c.mu.Lock()
	c.cache[key] = result
	c.mu.Unlock()
	return result
}

func (c *Client) format(ctx context.Context, code, filePath string, override map[string]any) Result {
	resp, err := c.worker.Do(ctx, Request{
		Type:           RequestFormat,
		Code:           code,
		FilePath:       filePath,
		ConfigOverride: override,
	})
	if err != nil {
		return fallbackResult(code, err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "worker reported failure"
		}
		return fallbackResult(code, errors.New(errors.CodeFormatter, msg))
	}
	if resp.Formatted == "" && resp.LineLength == 0 {
		return fallbackResult(code, errors.New(errors.CodeFormatter, "invalid worker response"))
	}
	return Result{
		Formatted:   resp.Formatted,
		IsMultiline: resp.IsMultiline,
		LineLength:  resp.LineLength,
	}
}

// ResolveConfig asks the worker for the formatter configuration that
// applies to filePath. Failures yield an empty map.
func (c *Client) ResolveConfig(ctx context.Context, filePath string) map[string]any {
	if filePath == "" {
		filePath = "package.json"
	}
	resp, err := c.worker.Do(ctx, Request{Type: RequestResolveConfig, FilePath: filePath})
	if err != nil || !resp.Success || resp.Config == nil {
		return map[string]any{}
	}
	return resp.Config
}

// Available reports whether the worker can resolve configuration.
func (c *Client) Available(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	resp, err := c.worker.Do(ctx, Request{Type: RequestResolveConfig, FilePath: "package.json"})
	return err == nil && resp.Success
}

func (c *Client) Close() error {
	return c.worker.Close()
}

func fallbackResult(code string, err error) Result {
	first, _, _ := strings.Cut(code, "\n")
	return Result{
		Formatted:   code,
		IsMultiline: strings.Contains(code, "\n"),
		LineLength:  util.DisplayWidth(first),
		Fallback:    true,
		Err:         err,
	}
}

func cacheKey(code, filePath string, override map[string]any) string {
	configKey := ""
	if len(override) > 0 {
		if data, err := json.Marshal(override); err == nil {
			configKey = string(data)
		}
	}
	return code + ":" + filePath + ":" + configKey
}
