package verifier

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/probe"
)

// flakyProber fails until the configured number of attempts has been made.
type flakyProber struct {
	readyAfter int32
	calls      atomic.Int32
}

func (f *flakyProber) Probe(ctx context.Context, spec probe.Spec) error {
	n := f.calls.Add(1)
	if n >= f.readyAfter {
		return nil
	}
	return fmt.Errorf("unit state is %q, want %q", "activating", "active")
}

func spec() module.Verification {
	return module.Verification{
		Probe: probe.Spec{Kind: probe.KindSystemd, Unit: "node_exporter.service"},
	}
}

func TestVerifyImmediatelyReady(t *testing.T) {
	v := New(WithProber(&flakyProber{readyAfter: 1}), WithInterval(10*time.Millisecond))

	out := v.Verify(context.Background(), "node-exporter", spec())
	if !out.Ready {
		t.Fatalf("expected ready, got %+v", out)
	}
	if out.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", out.Attempts)
	}
}

func TestVerifyBecomesReadyAfterRetries(t *testing.T) {
	v := New(
		WithProber(&flakyProber{readyAfter: 3}),
		WithInterval(10*time.Millisecond),
		WithDeadline(5*time.Second),
	)

	out := v.Verify(context.Background(), "node-exporter", spec())
	if !out.Ready {
		t.Fatalf("expected ready after retries, got %+v", out)
	}
	if out.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", out.Attempts)
	}
}

func TestVerifyNotReadyAtDeadline(t *testing.T) {
	v := New(
		WithProber(&flakyProber{readyAfter: 1 << 30}),
		WithInterval(20*time.Millisecond),
		WithDeadline(100*time.Millisecond),
	)

	start := time.Now()
	out := v.Verify(context.Background(), "node-exporter", spec())
	elapsed := time.Since(start)

	if out.Ready {
		t.Fatal("expected not ready")
	}
	if out.LastDetail == "" {
		t.Error("expected last failure detail to be carried")
	}
	if out.Attempts < 2 {
		t.Errorf("expected multiple poll attempts, got %d", out.Attempts)
	}
	// NotReady is returned at the deadline, not after an unbounded wait.
	if elapsed > 2*time.Second {
		t.Errorf("verification took %v, want ~100ms deadline", elapsed)
	}
}

func TestVerifySpecOverridesDefaults(t *testing.T) {
	p := &flakyProber{readyAfter: 1 << 30}
	v := New(WithProber(p), WithInterval(time.Hour), WithDeadline(time.Hour))

	s := spec()
	s.Deadline = module.Duration(50 * time.Millisecond)
	s.Interval = module.Duration(10 * time.Millisecond)

	start := time.Now()
	out := v.Verify(context.Background(), "m", s)
	if out.Ready {
		t.Fatal("expected not ready")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("spec deadline did not override the default")
	}
}

func TestVerifyCancellation(t *testing.T) {
	v := New(
		WithProber(&flakyProber{readyAfter: 1 << 30}),
		WithInterval(10*time.Millisecond),
		WithDeadline(time.Hour),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out := v.Verify(ctx, "m", spec())
	if out.Ready {
		t.Fatal("expected not ready on cancellation")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not end the poll")
	}
}
