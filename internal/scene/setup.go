package scene

import "math"

// setupTunnel walls off the left column and the top and bottom rows,
// injects the inflow velocity at the second column, and clears a
// pipe-shaped marker streak at the inlet. The inflow persists on its own:
// the solid column to its left keeps both projection and advection from
// ever rewriting u at column 1.
func (s *Scene) setupTunnel() {
	f := s.fluid
	n := f.NumY

	for i := 0; i < f.NumX; i++ {
		for j := 0; j < f.NumY; j++ {
			sv := 1.0
			if i == 0 || j == 0 || j == f.NumY-1 {
				sv = 0.0
			}
			f.S[i*n+j] = sv

			if i == 1 {
				f.U[i*n+j] = s.params.Inflow
			}
		}
	}

	pipe := 0.1 * float64(f.NumY)
	minJ := int(math.Floor(0.5*float64(f.NumY) - 0.5*pipe))
	maxJ := int(math.Floor(0.5*float64(f.NumY) + 0.5*pipe))
	for j := minJ; j < maxJ; j++ {
		f.M[j] = 0.0
	}
}

// setupTank closes the left, right, and bottom walls and leaves the top
// row open so the column of fluid can settle under gravity.
func (s *Scene) setupTank() {
	f := s.fluid
	n := f.NumY

	for i := 0; i < f.NumX; i++ {
		for j := 0; j < f.NumY; j++ {
			sv := 1.0
			if i == 0 || i == f.NumX-1 || j == 0 {
				sv = 0.0
			}
			f.S[i*n+j] = sv
		}
	}
}

// setupPaint leaves the mask untouched: the whole grid stays solid until
// the first obstacle drag flips the scanned interior to fluid, which is
// why dye only appears where the pointer has been.
func (s *Scene) setupPaint() {}
