package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	gs := NewGridSearch(
		[]string{"a", "b"},
		[][]float64{{1, 2, 3}, {10, 20}},
	)

	evals := 0
	run := func(params map[string]float64) (*sim.Result, error) {
		evals++
		score := math.Abs(params["a"]-2) + math.Abs(params["b"]-20)
		return &sim.Result{Metrics: map[string]float64{"score": score}}, nil
	}

	best, val, err := gs.Search(context.Background(), run, "score")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if evals != 6 {
		t.Errorf("expected 6 evaluations, got %d", evals)
	}
	if best["a"] != 2 || best["b"] != 20 {
		t.Errorf("best = %v, want a=2 b=20", best)
	}
	if val != 0 {
		t.Errorf("best score = %f, want 0", val)
	}
}

func TestGridSearchHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	run := func(params map[string]float64) (*sim.Result, error) {
		t.Fatal("run should not be called after cancellation")
		return nil, nil
	}

	if _, _, err := gs.Search(ctx, run, "score"); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSweepProjection(t *testing.T) {
	base := scene.DefaultParams(scene.Tank)
	base.Resolution = 10

	points, err := SweepProjection(context.Background(), base,
		[]float64{1.0, 1.9}, []int{10, 40}, 3)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	for _, p := range points {
		if p.MaxDivergence < 0 {
			t.Errorf("negative divergence at relax=%f iters=%d", p.OverRelaxation, p.NumIters)
		}
	}
}

func TestSweepProjectionEmptyGrid(t *testing.T) {
	base := scene.DefaultParams(scene.Tank)
	if _, err := SweepProjection(context.Background(), base, nil, []int{10}, 1); err == nil {
		t.Error("expected error for empty grid")
	}
}

func TestBest(t *testing.T) {
	points := []SweepPoint{
		{OverRelaxation: 1.0, NumIters: 40, MaxDivergence: 0.5},
		{OverRelaxation: 1.9, NumIters: 40, MaxDivergence: 0.1},
		{OverRelaxation: 1.9, NumIters: 20, MaxDivergence: 0.1},
	}

	best := Best(points)
	if best.OverRelaxation != 1.9 || best.NumIters != 20 {
		t.Errorf("best = %+v, want relax 1.9 iters 20", best)
	}

	if zero := Best(nil); zero != (SweepPoint{}) {
		t.Errorf("empty sweep should give zero point, got %+v", zero)
	}
}
