package feed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterSpacesCalls(t *testing.T) {
	rl := NewRateLimiter(20) // 50ms apart
	ctx := context.Background()

	start := time.Now()
	if err := rl.WaitTurn(ctx); err != nil {
		t.Fatal(err)
	}
	if err := rl.WaitTurn(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second call returned after %v, want the interval honored", elapsed)
	}
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	rl := NewRateLimiter(1) // next slot a full second away
	if err := rl.WaitTurn(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := rl.WaitTurn(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("cancelled wait still blocked for %v", elapsed)
	}
}
