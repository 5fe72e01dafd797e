package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/mohammad-safakhou/wsd/internal/lesk"
)

type countingResource struct {
	set   lesk.CandidateSet
	err   error
	calls int
}

func (c *countingResource) Variant() string { return "fake" }

func (c *countingResource) Candidates(context.Context, string, string) (lesk.CandidateSet, error) {
	c.calls++
	return c.set, c.err
}

func (c *countingResource) Signature(s lesk.SenseCandidate) string { return s.Description }

func (c *countingResource) ValidatePOS(pos string) error { return nil }

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (lesk.CandidateSet, bool, error) {
	return lesk.CandidateSet{}, false, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, lesk.CandidateSet) error {
	return errors.New("connection refused")
}

func TestKey(t *testing.T) {
	if got := Key("wordnet", "bank", "n"); got != "wordnet|bank|n" {
		t.Fatalf("key = %q", got)
	}
}

func TestResourceCachesCompleteSets(t *testing.T) {
	inner := &countingResource{set: lesk.CandidateSet{Candidates: []lesk.SenseCandidate{{ID: "bank.n.01"}}}}
	r := Wrap(inner, 0, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		set, err := r.Candidates(ctx, "bank", "n")
		if err != nil {
			t.Fatalf("candidates: %v", err)
		}
		if len(set.Candidates) != 1 {
			t.Fatalf("unexpected set %+v", set)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected one inner call, got %d", inner.calls)
	}
	if _, err := r.Candidates(ctx, "bank", "v"); err != nil || inner.calls != 2 {
		t.Fatalf("pos is part of the key: calls=%d err=%v", inner.calls, err)
	}
}

func TestResourceSkipsPartialSetsAndErrors(t *testing.T) {
	inner := &countingResource{set: lesk.CandidateSet{Candidates: []lesk.SenseCandidate{{ID: "Bank"}}, Skipped: 1}}
	r := Wrap(inner, 0, nil)
	ctx := context.Background()
	_, _ = r.Candidates(ctx, "bank", "")
	_, _ = r.Candidates(ctx, "bank", "")
	if inner.calls != 2 {
		t.Fatalf("partial sets must not be cached, calls=%d", inner.calls)
	}

	failing := &countingResource{err: lesk.ErrResourceUnavailable}
	r = Wrap(failing, 0, nil)
	for i := 0; i < 2; i++ {
		if _, err := r.Candidates(ctx, "bank", ""); !errors.Is(err, lesk.ErrResourceUnavailable) {
			t.Fatalf("expected error passthrough, got %v", err)
		}
	}
	if failing.calls != 2 {
		t.Fatalf("errors must not be cached, calls=%d", failing.calls)
	}
}

func TestResourceToleratesBrokenLayer(t *testing.T) {
	inner := &countingResource{set: lesk.CandidateSet{Candidates: []lesk.SenseCandidate{{ID: "x"}}}}
	r := &Resource{inner: inner, layers: []layer{{name: "redis", store: brokenStore{}}}, logger: Wrap(inner, 0, nil).logger}
	set, err := r.Candidates(context.Background(), "x", "")
	if err != nil || len(set.Candidates) != 1 {
		t.Fatalf("broken cache must fall through: %+v %v", set, err)
	}
}

func TestResourceBackfillsEarlierLayers(t *testing.T) {
	inner := &countingResource{}
	first, second := NewMemory(0), NewMemory(0)
	want := lesk.CandidateSet{Candidates: []lesk.SenseCandidate{{ID: "warm"}}}
	_ = second.Set(context.Background(), Key("fake", "bank", ""), want)
	r := &Resource{inner: inner, layers: []layer{{"memory", first}, {"second", second}}, logger: Wrap(inner, 0, nil).logger}

	set, err := r.Candidates(context.Background(), "bank", "")
	if err != nil || set.Candidates[0].ID != "warm" || inner.calls != 0 {
		t.Fatalf("expected second-layer hit, got %+v calls=%d err=%v", set, inner.calls, err)
	}
	if _, ok, _ := first.Get(context.Background(), Key("fake", "bank", "")); !ok {
		t.Fatalf("first layer not back-filled")
	}
}

func TestResourceUnwrapExposesCapabilities(t *testing.T) {
	inner := &countingResource{}
	r := Wrap(inner, 0, nil)
	if _, ok := r.Unwrap().(lesk.POSValidator); !ok {
		t.Fatalf("inner capabilities must be reachable through Unwrap")
	}
	if r.Variant() != "fake" {
		t.Fatalf("variant = %q", r.Variant())
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()
	_ = m.Set(ctx, "a", lesk.CandidateSet{})
	_ = m.Set(ctx, "b", lesk.CandidateSet{})
	_, _, _ = m.Get(ctx, "a")
	_ = m.Set(ctx, "c", lesk.CandidateSet{})
	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok, _ := m.Get(ctx, "a"); !ok {
		t.Fatalf("a was used recently and should remain")
	}
}
