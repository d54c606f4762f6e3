package fluid

func (f *Fluid) avgU(i, j int) float64 {
	n := f.NumY
	return (f.U[i*n+j-1] + f.U[i*n+j] +
		f.U[(i+1)*n+j-1] + f.U[(i+1)*n+j]) * 0.25
}

func (f *Fluid) avgV(i, j int) float64 {
	n := f.NumY
	return (f.V[(i-1)*n+j] + f.V[i*n+j] +
		f.V[(i-1)*n+j+1] + f.V[i*n+j+1]) * 0.25
}

// AdvectVelocity transports both velocity components semi-Lagrangially:
// each face sample is traced backward along the current velocity for one
// timestep and the old field is resampled there. Results accumulate in
// scratch buffers so no face reads a partially advected neighbor; faces
// bordering a solid cell on the relevant side keep their copied value.
func (f *Fluid) AdvectVelocity(dt float64) {
	copy(f.newU, f.U)
	copy(f.newV, f.V)

	n := f.NumY
	h := f.H
	h2 := 0.5 * h

	f.split(1, f.NumX, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 1; j < f.NumY; j++ {
				if f.S[i*n+j] != 0 && f.S[(i-1)*n+j] != 0 && j < f.NumY-1 {
					x := float64(i) * h
					y := float64(j)*h + h2
					u := f.U[i*n+j]
					v := f.avgV(i, j)
					x -= dt * u
					y -= dt * v
					f.newU[i*n+j] = f.SampleField(x, y, FieldU)
				}
				if f.S[i*n+j] != 0 && f.S[i*n+j-1] != 0 && i < f.NumX-1 {
					x := float64(i)*h + h2
					y := float64(j) * h
					u := f.avgU(i, j)
					v := f.V[i*n+j]
					x -= dt * u
					y -= dt * v
					f.newV[i*n+j] = f.SampleField(x, y, FieldV)
				}
			}
		}
	})

	copy(f.U, f.newU)
	copy(f.V, f.newV)
}

// AdvectSmoke transports the marker density with the same backtrace at
// cell centers, using the average of the two bounding faces per axis.
func (f *Fluid) AdvectSmoke(dt float64) {
	copy(f.newM, f.M)

	n := f.NumY
	h := f.H
	h2 := 0.5 * h

	f.split(1, f.NumX-1, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 1; j < f.NumY-1; j++ {
				if f.S[i*n+j] != 0 {
					u := (f.U[i*n+j] + f.U[(i+1)*n+j]) * 0.5
					v := (f.V[i*n+j] + f.V[i*n+j+1]) * 0.5
					x := float64(i)*h + h2 - dt*u
					y := float64(j)*h + h2 - dt*v
					f.newM[i*n+j] = f.SampleField(x, y, FieldM)
				}
			}
		}
	})

	copy(f.M, f.newM)
}
