package formatter

import (
	"context"

	"arrowstyle/internal/core/errors"
)

// Disabled is the worker used when no external formatter is configured.
type Disabled struct{}

func (Disabled) Do(context.Context, Request) (Response, error) {
	return Response{}, errors.New(errors.CodeFormatter, "external formatter disabled")
}

func (Disabled) Close() error { return nil }
