// Package formatter talks to an out-of-process code formatter (prettier)
// through a blocking request/response worker. Every failure is recoverable:
// callers get a heuristic fallback result instead of an error.
package formatter

import "context"

type RequestType string

const (
	RequestFormat        RequestType = "format"
	RequestResolveConfig RequestType = "resolveConfig"
)

type Request struct {
	Type           RequestType    `json:"type"`
	Code           string         `json:"code,omitempty"`
	FilePath       string         `json:"filePath,omitempty"`
	ConfigOverride map[string]any `json:"configOverride,omitempty"`
}

// Response is either a format result, a config result or a failure.
type Response struct {
	Success     bool           `json:"success"`
	Formatted   string         `json:"formatted,omitempty"`
	IsMultiline bool           `json:"isMultiline,omitempty"`
	LineLength  int            `json:"lineLength,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Worker performs one blocking request.
type Worker interface {
	Do(ctx context.Context, req Request) (Response, error)
	Close() error
}
