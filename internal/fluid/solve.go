package fluid

// Integrate adds gravity to the y-velocity of every face whose own cell
// and the cell below it are both fluid, so body forces never push flow
// into a wall.
func (f *Fluid) Integrate(dt, gravity float64) {
	n := f.NumY
	for i := 1; i < f.NumX; i++ {
		for j := 1; j < f.NumY-1; j++ {
			if f.S[i*n+j] != 0 && f.S[i*n+j-1] != 0 {
				f.V[i*n+j] += gravity * dt
			}
		}
	}
}

func (f *Fluid) ClearPressure() {
	for i := range f.P {
		f.P[i] = 0
	}
}

// SolveIncompressibility runs the Gauss-Seidel pressure projection for a
// fixed number of iterations. Updates land in place, so later cells in a
// sweep see earlier corrections; that in-sweep visibility is what lets
// overRelaxation above 1.0 accelerate convergence. There is no residual
// check: the iteration count is a compute budget, not a tolerance.
func (f *Fluid) SolveIncompressibility(numIters int, dt, overRelaxation float64) {
	n := f.NumY
	cp := f.Density * f.H / dt

	for iter := 0; iter < numIters; iter++ {
		for i := 1; i < f.NumX-1; i++ {
			for j := 1; j < f.NumY-1; j++ {
				if f.S[i*n+j] == 0 {
					continue
				}

				sx0 := f.S[(i-1)*n+j]
				sx1 := f.S[(i+1)*n+j]
				sy0 := f.S[i*n+j-1]
				sy1 := f.S[i*n+j+1]
				s := sx0 + sx1 + sy0 + sy1
				if s == 0 {
					continue
				}

				div := f.U[(i+1)*n+j] - f.U[i*n+j] + f.V[i*n+j+1] - f.V[i*n+j]

				p := -div / s * overRelaxation
				f.P[i*n+j] += cp * p

				f.U[i*n+j] -= sx0 * p
				f.U[(i+1)*n+j] += sx1 * p
				f.V[i*n+j] -= sy0 * p
				f.V[i*n+j+1] += sy1 * p
			}
		}
	}
}

// Extrapolate copies the outermost velocity rows and columns from their
// nearest interior neighbor, a zero-gradient condition: U across the top
// and bottom rows, V across the left and right columns. The interior
// solver never touches these samples.
func (f *Fluid) Extrapolate() {
	n := f.NumY
	for i := 0; i < f.NumX; i++ {
		f.U[i*n+0] = f.U[i*n+1]
		f.U[i*n+f.NumY-1] = f.U[i*n+f.NumY-2]
	}
	for j := 0; j < f.NumY; j++ {
		f.V[0*n+j] = f.V[1*n+j]
		f.V[(f.NumX-1)*n+j] = f.V[(f.NumX-2)*n+j]
	}
}
