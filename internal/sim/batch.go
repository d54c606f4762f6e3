package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eulerflow/internal/metrics"
	"github.com/san-kum/eulerflow/internal/scene"
)

type BatchItem struct {
	Name   string
	Params scene.Params
	Frames int
}

// RunBatch simulates every item on its own scene, at most NumCPU at a time.
// The factory builds a fresh metric set per item so runs never share
// accumulators. The first failing item cancels the rest.
func RunBatch(ctx context.Context, items []BatchItem, factory func() []metrics.Metric) ([]*Result, error) {
	results := make([]*Result, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, item := range items {
		g.Go(func() error {
			s, err := scene.New(item.Params)
			if err != nil {
				return fmt.Errorf("batch %q: %w", item.Name, err)
			}

			r := New(s)
			if factory != nil {
				for _, m := range factory() {
					r.AddMetric(m)
				}
			}

			res, err := r.Run(ctx, item.Frames)
			if err != nil {
				return fmt.Errorf("batch %q: %w", item.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
