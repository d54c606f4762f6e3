package optim

import (
	"context"
	"math"

	"github.com/san-kum/eulerflow/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates run on every point of the parameter grid and returns
// the assignment minimizing the named metric. Evaluations that fail are
// skipped rather than aborting the whole search.
func (g *GridSearch) Search(
	ctx context.Context,
	run func(params map[string]float64) (*sim.Result, error),
	metricName string,
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run func(map[string]float64) (*sim.Result, error),
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := run(current)
		if err != nil {
			return nil
		}

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
