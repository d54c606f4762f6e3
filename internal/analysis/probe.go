package analysis

import (
	"math"

	"github.com/san-kum/eulerflow/internal/fluid"
	"github.com/san-kum/eulerflow/internal/scene"
)

// Probe records the interpolated face velocities at a fixed world point
// after every frame.
type Probe struct {
	x, y  float64
	u, v  []float64
	times []float64
}

func NewProbe(x, y float64) *Probe {
	return &Probe{x: x, y: y}
}

// OnFrame implements the frame observer hook.
func (p *Probe) OnFrame(s *scene.Scene, frame int, t float64) {
	f := s.Fluid()
	p.u = append(p.u, f.SampleField(p.x, p.y, fluid.FieldU))
	p.v = append(p.v, f.SampleField(p.x, p.y, fluid.FieldV))
	p.times = append(p.times, t)
}

func (p *Probe) Position() (x, y float64) { return p.x, p.y }
func (p *Probe) U() []float64             { return p.u }
func (p *Probe) V() []float64             { return p.v }
func (p *Probe) Times() []float64         { return p.times }
func (p *Probe) Len() int                 { return len(p.times) }

// Speed returns the magnitude series of the probed velocity.
func (p *Probe) Speed() []float64 {
	speed := make([]float64, len(p.u))
	for i := range speed {
		speed[i] = math.Hypot(p.u[i], p.v[i])
	}
	return speed
}

func (p *Probe) Reset() {
	p.u = p.u[:0]
	p.v = p.v[:0]
	p.times = p.times[:0]
}
