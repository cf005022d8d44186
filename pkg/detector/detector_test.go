package detector

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modctl/modctl/pkg/module"
	"github.com/modctl/modctl/pkg/probe"
)

// fakeProber matches specs by file path: paths present in the match set
// succeed, "hang" blocks until the context is done, everything else fails.
type fakeProber struct {
	matches map[string]bool
	calls   atomic.Int32
}

func (f *fakeProber) Probe(ctx context.Context, spec probe.Spec) error {
	f.calls.Add(1)
	if spec.Path == "hang" {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.matches[spec.Path] {
		return nil
	}
	return fmt.Errorf("no match for %s", spec.Path)
}

func rule(path string, weight int, timeout time.Duration) module.DetectionRule {
	return module.DetectionRule{
		Probe:   probe.Spec{Kind: probe.KindFile, Path: path},
		Weight:  weight,
		Timeout: module.Duration(timeout),
	}
}

func TestDetectAggregatesWeights(t *testing.T) {
	p := &fakeProber{matches: map[string]bool{"a": true, "b": true}}
	d := New(WithProber(p))

	descriptors := []module.Descriptor{
		{ID: "m1", Rules: []module.DetectionRule{rule("a", 40, 0), rule("b", 25, 0), rule("c", 30, 0)}},
		{ID: "m2", Rules: []module.DetectionRule{rule("c", 90, 0)}},
	}

	scores, err := d.Detect(context.Background(), descriptors)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if scores["m1"] != 65 {
		t.Errorf("m1 score = %d, want 65", scores["m1"])
	}
	if scores["m2"] != 0 {
		t.Errorf("m2 score = %d, want 0", scores["m2"])
	}
}

func TestDetectClampsMisconfiguredWeights(t *testing.T) {
	p := &fakeProber{matches: map[string]bool{"a": true, "b": true, "c": true}}
	d := New(WithProber(p))

	// Weights sum to 180; the score must still clamp to 100.
	descriptors := []module.Descriptor{
		{ID: "m", Rules: []module.DetectionRule{rule("a", 80, 0), rule("b", 60, 0), rule("c", 40, 0)}},
	}

	scores, err := d.Detect(context.Background(), descriptors)
	if err != nil {
		t.Fatal(err)
	}
	if scores["m"] != 100 {
		t.Errorf("score = %d, want clamped 100", scores["m"])
	}
}

func TestDetectClampsMaxConfidence(t *testing.T) {
	p := &fakeProber{matches: map[string]bool{"a": true}}

	tests := []struct {
		name          string
		maxConfidence int
		want          int
	}{
		{"cap below weight", 50, 50},
		{"cap above 100 re-clamped", 500, 90},
		{"negative cap clamped to zero", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(WithProber(p), WithMaxConfidence(tt.maxConfidence))
			scores, err := d.Detect(context.Background(), []module.Descriptor{
				{ID: "m", Rules: []module.DetectionRule{rule("a", 90, 0)}},
			})
			if err != nil {
				t.Fatal(err)
			}
			if scores["m"] != tt.want {
				t.Errorf("score = %d, want %d", scores["m"], tt.want)
			}
		})
	}
}

func TestDetectTimeoutIsNonMatch(t *testing.T) {
	p := &fakeProber{matches: map[string]bool{"a": true}}
	d := New(WithProber(p))

	descriptors := []module.Descriptor{
		{ID: "m", Rules: []module.DetectionRule{
			rule("a", 40, 0),
			rule("hang", 60, 100*time.Millisecond),
		}},
	}

	start := time.Now()
	scores, err := d.Detect(context.Background(), descriptors)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("a hanging probe must not fail the pass: %v", err)
	}
	if scores["m"] != 40 {
		t.Errorf("score = %d, want 40 (hung rule counts as non-match)", scores["m"])
	}
	// The pass must complete within the rule timeout plus scheduling slack.
	if elapsed > 2*time.Second {
		t.Errorf("pass took %v, should be bounded by the 100ms rule timeout", elapsed)
	}
}

func TestDetectModuleWithNoRules(t *testing.T) {
	d := New(WithProber(&fakeProber{}))

	scores, err := d.Detect(context.Background(), []module.Descriptor{{ID: "bare"}})
	if err != nil {
		t.Fatal(err)
	}
	if score, ok := scores["bare"]; !ok || score != 0 {
		t.Errorf("expected zero score entry for rule-less module, got %v", scores)
	}
}

func TestDetectCancellation(t *testing.T) {
	d := New(WithProber(&fakeProber{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Detect(ctx, []module.Descriptor{
		{ID: "m", Rules: []module.DetectionRule{rule("a", 10, 0)}},
	})
	if err == nil {
		t.Fatal("expected context cancellation to surface")
	}
}

func TestDetectRunsAllRules(t *testing.T) {
	p := &fakeProber{matches: map[string]bool{}}
	d := New(WithProber(p), WithWorkerLimit(2))

	descriptors := []module.Descriptor{
		{ID: "m1", Rules: []module.DetectionRule{rule("a", 10, 0), rule("b", 10, 0)}},
		{ID: "m2", Rules: []module.DetectionRule{rule("c", 10, 0), rule("d", 10, 0)}},
	}

	if _, err := d.Detect(context.Background(), descriptors); err != nil {
		t.Fatal(err)
	}
	if got := p.calls.Load(); got != 4 {
		t.Errorf("expected 4 probe calls, got %d", got)
	}
}

func TestApplicable(t *testing.T) {
	scores := map[string]int{
		"a": 80,
		"b": 40,
		"c": 50,
		"d": 0,
		"e": 80,
	}

	got := Applicable(scores, 40)
	want := []string{"a", "e", "c"}
	if len(got) != len(want) {
		t.Fatalf("Applicable() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Applicable()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// Default policy: anything above zero applies.
	if got := Applicable(scores, 0); len(got) != 4 {
		t.Errorf("Applicable(0) = %v, want 4 entries", got)
	}
}
