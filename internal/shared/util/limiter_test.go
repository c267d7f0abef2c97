package util

import (
	"context"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow(1) {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow(1) {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow(1) {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow(1) {
		t.Error("expected token to be refilled after wait")
	}
}

func TestLimiterZeroBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	if !l.Allow(1) {
		t.Error("expected burst to be clamped to 1")
	}
}

func TestLimiterWait(t *testing.T) {
	l := NewLimiter(100, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, 1); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
}
