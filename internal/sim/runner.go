package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/eulerflow/internal/metrics"
	"github.com/san-kum/eulerflow/internal/scene"
)

// Runner advances a scene frame by frame, feeding each completed frame to
// the attached metrics and observers.
type Runner struct {
	scene     *scene.Scene
	metrics   []metrics.Metric
	observers []Observer
}

func New(s *scene.Scene) *Runner {
	return &Runner{
		scene:     s,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }
func (r *Runner) Scene() *scene.Scene        { return r.scene }
func (r *Runner) Metrics() []metrics.Metric  { return r.metrics }

func (r *Runner) Run(ctx context.Context, frames int) (*Result, error) {
	if r.scene == nil {
		return nil, fmt.Errorf("runner has no scene")
	}
	if frames < 0 {
		return nil, fmt.Errorf("frames must be non-negative, got %d", frames)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Times:   make([]float64, 0, frames),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		result.Series[m.Name()] = make([]float64, 0, frames)
	}

	dt := r.scene.Params().Dt
	start := time.Now()
	Logger().Debug("run starting",
		"scene", r.scene.Params().Type.String(),
		"frames", frames,
		"dt", dt,
		"metrics", len(r.metrics))

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			r.finalize(result, start)
			return result, ctx.Err()
		default:
		}

		r.scene.Step(dt)
		t := float64(r.scene.Frame()) * dt

		f := r.scene.Fluid()
		for _, m := range r.metrics {
			m.Observe(f, t)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, o := range r.observers {
			o.OnFrame(r.scene, r.scene.Frame(), t)
		}

		result.Times = append(result.Times, t)
		result.FramesRun++
	}

	r.finalize(result, start)
	return result, nil
}

func (r *Runner) finalize(result *Result, start time.Time) {
	result.WallTime = time.Since(start)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	Logger().Debug("run finished",
		"frames", result.FramesRun,
		"wall", result.WallTime)
}
