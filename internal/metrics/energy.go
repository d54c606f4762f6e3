package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerflow/internal/fluid"
)

// KineticEnergy integrates 0.5*rho*|u|^2 over the grid using face
// velocities, one h^2 cell volume per sample.
type KineticEnergy struct {
	name string
	last float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f *fluid.Fluid, t float64) {
	sq := floats.Dot(f.U, f.U) + floats.Dot(f.V, f.V)
	k.last = 0.5 * f.Density * f.H * f.H * sq
}

func (k *KineticEnergy) Value() float64 {
	return k.last
}

func (k *KineticEnergy) Reset() {
	k.last = 0
}
