package optim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/eulerflow/internal/metrics"
	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

// SweepPoint is one evaluated projection configuration.
type SweepPoint struct {
	OverRelaxation float64
	NumIters       int
	MaxDivergence  float64
	WallTime       time.Duration
}

// SweepProjection runs the scene once per combination of over-relaxation
// and iteration budget and records the worst residual divergence of each
// run. Runs execute in parallel.
func SweepProjection(ctx context.Context, base scene.Params, relaxations []float64, iters []int, frames int) ([]SweepPoint, error) {
	if len(relaxations) == 0 || len(iters) == 0 {
		return nil, fmt.Errorf("sweep needs at least one relaxation and one iteration value")
	}

	items := make([]sim.BatchItem, 0, len(relaxations)*len(iters))
	for _, relax := range relaxations {
		for _, n := range iters {
			p := base
			p.OverRelaxation = relax
			p.NumIters = n
			items = append(items, sim.BatchItem{
				Name:   fmt.Sprintf("relax=%.2f iters=%d", relax, n),
				Params: p,
				Frames: frames,
			})
		}
	}

	results, err := sim.RunBatch(ctx, items, func() []metrics.Metric {
		return []metrics.Metric{metrics.NewMaxDivergence()}
	})
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(items))
	for i, res := range results {
		points[i] = SweepPoint{
			OverRelaxation: items[i].Params.OverRelaxation,
			NumIters:       items[i].Params.NumIters,
			MaxDivergence:  res.Metrics["max_divergence"],
			WallTime:       res.WallTime,
		}
	}
	return points, nil
}

// Best picks the point with the lowest residual divergence, breaking ties
// toward the cheaper iteration budget.
func Best(points []SweepPoint) SweepPoint {
	if len(points) == 0 {
		return SweepPoint{}
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.MaxDivergence < best.MaxDivergence ||
			(p.MaxDivergence == best.MaxDivergence && p.NumIters < best.NumIters) {
			best = p
		}
	}
	return best
}
