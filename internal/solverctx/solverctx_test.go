package solverctx

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	sc := New()
	if sc.Seed == 0 {
		t.Fatalf("expected non-zero default seed")
	}
	if sc.Ctx == nil {
		t.Fatalf("expected non-nil default context")
	}
	if _, ok := sc.Deadline(); ok {
		t.Fatalf("expected no deadline by default")
	}
}

func TestMaxTrainTimeDeadline(t *testing.T) {
	sc := New(WithMaxTrainTime(10 * time.Millisecond))
	d1, ok := sc.Deadline()
	if !ok {
		t.Fatalf("expected a deadline")
	}
	d2, _ := sc.Deadline()
	if !d1.Equal(d2) {
		t.Fatalf("deadline should be latched across calls")
	}
}

func TestTieBreakerDeterminism(t *testing.T) {
	sc := New(WithSeed(42))
	a := sc.TieBreaker().Intn(10)
	sc2 := New(WithSeed(42))
	b := sc2.TieBreaker().Intn(10)
	if a != b {
		t.Fatalf("same seed should produce the same draw")
	}
}
