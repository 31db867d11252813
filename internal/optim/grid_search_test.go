package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/marblesim/internal/sim"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2, 3}, {10, 20}})

	calls := 0
	run := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		calls++
		cost := (p["a"]-2)*(p["a"]-2) + p["b"]
		return &sim.Result{Metrics: map[string]float64{"cost": cost}}, nil
	}

	best, val, err := g.Search(context.Background(), run, "cost")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 6 {
		t.Errorf("ran %d combinations, want 6", calls)
	}
	if best["a"] != 2 || best["b"] != 10 || val != 10 {
		t.Errorf("best = %v (%v)", best, val)
	}
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	run := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		return nil, errors.New("boom")
	}
	if _, _, err := g.Search(context.Background(), run, "cost"); !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2, 3}})

	calls := 0
	run := func(ctx context.Context, p map[string]float64) (*sim.Result, error) {
		calls++
		cancel()
		return &sim.Result{Metrics: map[string]float64{"cost": p["a"]}}, nil
	}
	if _, _, err := g.Search(ctx, run, "cost"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("ran %d combinations after cancel, want 1", calls)
	}
}
