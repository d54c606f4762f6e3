package metrics

import "github.com/san-kum/eulerflow/internal/fluid"

// Metric observes the field store once per frame and reduces what it saw
// to a single value. Implementations are not safe for concurrent use.
type Metric interface {
	Name() string
	Observe(f *fluid.Fluid, t float64)
	Value() float64
	Reset()
}
