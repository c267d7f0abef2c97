package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	linter, session, _ := s.app.current()
	if linter == nil {
		status.Status = "degraded"
		status.Components["linter"] = "missing"
	} else {
		status.Components["linter"] = "ok"
	}

	if s.app.Parser != nil {
		status.Components["parser"] = fmt.Sprintf("ok (%d extensions)", len(s.app.Parser.Loader().SupportedExtensions()))
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	if s.app.cache == nil {
		status.Components["cache"] = "disabled"
	} else if results, runs, err := s.app.cache.Stats(); err != nil {
		status.Status = "degraded"
		status.Components["cache"] = "error: " + err.Error()
	} else {
		status.Components["cache"] = fmt.Sprintf("ok (%d results, %d runs)", results, runs)
	}

	switch {
	case session == nil:
		status.Components["formatter"] = "closed"
	case !session.Formatter().Enabled():
		status.Components["formatter"] = "disabled"
	case session.Formatter().Available(ctx):
		status.Components["formatter"] = "ok"
	default:
		status.Components["formatter"] = "unavailable"
	}

	return status
}
