package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerflow/internal/scene"
)

// FrameStats is one telemetry row: the instantaneous health numbers of a
// single completed frame.
type FrameStats struct {
	Frame         int     `csv:"frame"`
	Time          float64 `csv:"time"`
	MaxDivergence float64 `csv:"max_divergence"`
	SmokeMass     float64 `csv:"smoke_mass"`
	KineticEnergy float64 `csv:"kinetic_energy"`
	PressureMin   float64 `csv:"pressure_min"`
	PressureMax   float64 `csv:"pressure_max"`
	CFL           float64 `csv:"cfl"`
}

func Collect(s *scene.Scene, frame int, t float64) FrameStats {
	f := s.Fluid()
	dt := s.Params().Dt

	speed := math.Max(
		math.Max(floats.Max(f.U), -floats.Min(f.U)),
		math.Max(floats.Max(f.V), -floats.Min(f.V)),
	)

	return FrameStats{
		Frame:         frame,
		Time:          t,
		MaxDivergence: f.MaxDivergence(),
		SmokeMass:     floats.Sum(f.M),
		KineticEnergy: 0.5 * f.Density * f.H * f.H * (floats.Dot(f.U, f.U) + floats.Dot(f.V, f.V)),
		PressureMin:   floats.Min(f.P),
		PressureMax:   floats.Max(f.P),
		CFL:           speed * dt / f.H,
	}
}
