package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetupTracingDisabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), "", "dev")
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	_, span := Tracer.Start(context.Background(), "test.span")
	span.End()
}

func TestCountersRegistered(t *testing.T) {
	before := testutil.ToFloat64(DiagnosticsTotal.WithLabelValues("arrow-return-style", "use-implicit-return"))
	DiagnosticsTotal.WithLabelValues("arrow-return-style", "use-implicit-return").Inc()
	after := testutil.ToFloat64(DiagnosticsTotal.WithLabelValues("arrow-return-style", "use-implicit-return"))
	if after != before+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}
