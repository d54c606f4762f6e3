package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerflow/internal/fluid"
)

type MaxDivergence struct {
	name    string
	maxDiv  float64
	samples int
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{
		name: "max_divergence",
	}
}

func (m *MaxDivergence) Name() string { return m.name }

func (m *MaxDivergence) Observe(f *fluid.Fluid, t float64) {
	d := f.MaxDivergence()
	if d > m.maxDiv {
		m.maxDiv = d
	}
	m.samples++
}

func (m *MaxDivergence) Value() float64 {
	return m.maxDiv
}

func (m *MaxDivergence) Reset() {
	m.maxDiv = 0
	m.samples = 0
}

// CFL tracks the worst Courant number seen: the fastest face velocity
// expressed in cells per timestep. Semi-Lagrangian advection stays stable
// above 1, but the number is still the first thing to look at when a run
// goes noisy.
type CFL struct {
	name    string
	dt      float64
	maxCFL  float64
	samples int
}

func NewCFL(dt float64) *CFL {
	return &CFL{
		name: "cfl",
		dt:   dt,
	}
}

func (c *CFL) Name() string { return c.name }

func (c *CFL) Observe(f *fluid.Fluid, t float64) {
	speed := math.Max(absMax(f.U), absMax(f.V))
	cfl := speed * c.dt / f.H
	if cfl > c.maxCFL {
		c.maxCFL = cfl
	}
	c.samples++
}

func (c *CFL) Value() float64 {
	return c.maxCFL
}

func (c *CFL) Reset() {
	c.maxCFL = 0
	c.samples = 0
}

type PressureRange struct {
	name string
	last float64
}

func NewPressureRange() *PressureRange {
	return &PressureRange{
		name: "pressure_range",
	}
}

func (p *PressureRange) Name() string { return p.name }

func (p *PressureRange) Observe(f *fluid.Fluid, t float64) {
	p.last = floats.Max(f.P) - floats.Min(f.P)
}

func (p *PressureRange) Value() float64 {
	return p.last
}

func (p *PressureRange) Reset() {
	p.last = 0
}

// InflowEffort integrates the mean inlet-face speed over time. On a
// regulated tunnel run it is the work proxy for the inflow drive: a loop
// that settles quickly accumulates less effort than one that hunts.
type InflowEffort struct {
	name   string
	dt     float64
	effort float64
}

func NewInflowEffort(dt float64) *InflowEffort {
	return &InflowEffort{
		name: "inflow_effort",
		dt:   dt,
	}
}

func (e *InflowEffort) Name() string { return e.name }

func (e *InflowEffort) Observe(f *fluid.Fluid, t float64) {
	n := f.NumY
	rows := n - 2
	if rows <= 0 {
		return
	}
	sum := 0.0
	for j := 1; j < n-1; j++ {
		sum += math.Abs(f.U[n+j])
	}
	e.effort += sum / float64(rows) * e.dt
}

func (e *InflowEffort) Value() float64 {
	return e.effort
}

func (e *InflowEffort) Reset() {
	e.effort = 0
}

func absMax(xs []float64) float64 {
	return math.Max(floats.Max(xs), -floats.Min(xs))
}
