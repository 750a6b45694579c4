package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingRun counts invocations and optionally fails.
type countingRun struct {
	calls atomic.Int32
	err   error
}

func (r *countingRun) Run(_ context.Context) error {
	r.calls.Add(1)
	return r.err
}

func at(hour int) time.Time {
	return time.Date(2024, 5, 1, hour, 30, 0, 0, time.Local)
}

func TestWindowContains(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		hour   int
		want   bool
	}{
		{"before start", Window{8, 18}, 7, false},
		{"at start", Window{8, 18}, 8, true},
		{"midday", Window{8, 18}, 12, true},
		{"end hour inclusive", Window{8, 18}, 18, true},
		{"after end", Window{8, 18}, 19, false},
		{"wrap late evening", Window{22, 6}, 23, true},
		{"wrap early morning", Window{22, 6}, 3, true},
		{"wrap end inclusive", Window{22, 6}, 6, true},
		{"wrap outside", Window{22, 6}, 12, false},
		{"single hour", Window{9, 9}, 9, true},
		{"single hour miss", Window{9, 9}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Contains(at(tt.hour)); got != tt.want {
				t.Errorf("%v.Contains(%02d:30) = %v, want %v", tt.window, tt.hour, got, tt.want)
			}
		})
	}
}

func TestWindowValidate(t *testing.T) {
	if err := DefaultWindow().Validate(); err != nil {
		t.Fatalf("default window invalid: %v", err)
	}
	for _, w := range []Window{{-1, 5}, {8, 24}, {30, 2}} {
		if err := w.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", w)
		}
	}
}

func TestRun_CancelReturnsPromptly(t *testing.T) {
	r := &countingRun{}
	s := NewScheduler(r.Run, time.Hour, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("run calls = %d, want 1 (immediate cycle only)", got)
	}
}

func TestRun_TicksOnInterval(t *testing.T) {
	r := &countingRun{}
	s := NewScheduler(r.Run, 100*time.Millisecond, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Allow time for at least two full passes (run → sleep interval → run).
	time.Sleep(250 * time.Millisecond)
	cancel()
	<-done

	if got := r.calls.Load(); got < 2 {
		t.Errorf("run calls = %d, want >= 2", got)
	}
}

func TestRun_FailureDoesNotStopLoop(t *testing.T) {
	r := &countingRun{err: errors.New("boom")}
	s := NewScheduler(r.Run, 50*time.Millisecond, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(180 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v, want nil", err)
	}
	if got := r.calls.Load(); got < 2 {
		t.Errorf("run calls = %d, want >= 2 after failures", got)
	}
}

func TestRun_SkipsOutsideWindow(t *testing.T) {
	tests := []struct {
		name      string
		hour      int
		wantCalls int32
	}{
		{"inside", 10, 1},
		{"outside", 21, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &countingRun{}
			w := DefaultWindow()
			s := NewScheduler(r.Run, time.Hour, &w, discardLogger())
			s.now = func() time.Time { return at(tt.hour) }

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() {
				done <- s.Run(ctx)
			}()

			time.Sleep(50 * time.Millisecond)
			cancel()
			<-done

			if got := r.calls.Load(); got != tt.wantCalls {
				t.Errorf("run calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}
