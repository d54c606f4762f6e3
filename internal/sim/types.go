package sim

import (
	"time"

	"github.com/san-kum/eulerflow/internal/scene"
)

// Observer receives the scene after every completed frame. Observers run on
// the stepping goroutine and must not retain the scene past the call.
type Observer interface {
	OnFrame(s *scene.Scene, frame int, t float64)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(s *scene.Scene, frame int, t float64)

func (fn ObserverFunc) OnFrame(s *scene.Scene, frame int, t float64) { fn(s, frame, t) }

type Result struct {
	FramesRun int
	WallTime  time.Duration
	Times     []float64
	Series    map[string][]float64
	Metrics   map[string]float64
}

// SeriesFor returns the per-frame values recorded for a metric, or nil if
// the metric was not attached to the run.
func (r *Result) SeriesFor(name string) []float64 {
	if r == nil || r.Series == nil {
		return nil
	}
	return r.Series[name]
}
