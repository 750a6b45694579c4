package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

func TestWait_SameHost_EnforcesMinDelay(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "https://www.indeed.de/jobs?q=AI"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "https://www.indeed.de/jobs?q=ML"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Allow 20ms for timer jitter.
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentHosts_NoCrossBlocking(t *testing.T) {
	limiter := NewHostLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://www.stepstone.de/jobs/ai"); err != nil {
		t.Fatalf("stepstone wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "https://www.datacareer.de/jobs/"); err != nil {
		t.Fatalf("datacareer wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("different hosts should not block each other, waited %v", elapsed)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	limiter := NewHostLimiter(time.Hour)
	if err := limiter.Wait(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Wait(ctx, "https://example.com/b"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestRateLimitedFetcher_Delegates(t *testing.T) {
	calls := 0
	inner := model.FetchFunc(func(_ context.Context, url string) ([]byte, error) {
		calls++
		return []byte(url), nil
	})

	f := NewRateLimitedFetcher(inner, NewHostLimiter(time.Millisecond))
	body, err := f.Fetch(context.Background(), "https://example.com/jobs")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "https://example.com/jobs" || calls != 1 {
		t.Errorf("body = %q calls = %d", body, calls)
	}
}
