package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerflow/internal/fluid"
)

type SmokeMass struct {
	name string
	last float64
}

func NewSmokeMass() *SmokeMass {
	return &SmokeMass{
		name: "smoke_mass",
	}
}

func (s *SmokeMass) Name() string { return s.name }

func (s *SmokeMass) Observe(f *fluid.Fluid, t float64) {
	s.last = floats.Sum(f.M)
}

func (s *SmokeMass) Value() float64 {
	return s.last
}

func (s *SmokeMass) Reset() {
	s.last = 0
}

// SmokeDrift reports the largest relative change in total smoke mass since
// the first observation. Semi-Lagrangian advection is not conservative, so
// some drift is expected; a large value flags a boundary leak.
type SmokeDrift struct {
	name     string
	initial  float64
	maxDrift float64
	started  bool
}

func NewSmokeDrift() *SmokeDrift {
	return &SmokeDrift{
		name: "smoke_drift",
	}
}

func (s *SmokeDrift) Name() string { return s.name }

func (s *SmokeDrift) Observe(f *fluid.Fluid, t float64) {
	mass := floats.Sum(f.M)
	if !s.started {
		s.initial = mass
		s.started = true
		return
	}
	if s.initial == 0 {
		return
	}
	drift := math.Abs(mass-s.initial) / math.Abs(s.initial)
	if drift > s.maxDrift {
		s.maxDrift = drift
	}
}

func (s *SmokeDrift) Value() float64 {
	return s.maxDrift
}

func (s *SmokeDrift) Reset() {
	s.initial = 0
	s.maxDrift = 0
	s.started = false
}
