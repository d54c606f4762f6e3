package fluid

import (
	"fmt"
	"math"
)

type Field int

const (
	FieldU Field = iota
	FieldV
	FieldM
)

// Ranger splits an index range across workers. The advection sweeps hand
// their row loops to it; a nil Ranger means plain serial execution.
type Ranger interface {
	Range(start, end int, fn func(lo, hi int))
}

// Fluid holds every per-cell array of the simulation. Cell (i, j) maps to
// flat index i*NumY+j in all of them. U lives on left faces, V on bottom
// faces, P/S/M at cell centers. S is strictly 0 (solid) or 1 (fluid) and
// is never interpolated.
type Fluid struct {
	Density float64
	NumX    int
	NumY    int
	H       float64

	U []float64
	V []float64
	P []float64
	S []float64
	M []float64

	newU []float64
	newV []float64
	newM []float64

	ranger Ranger
}

// New allocates a grid field store with zeroed fields except the marker
// density, which starts at 1.0 everywhere. Non-positive dimensions are a
// programming error, not a runtime condition.
func New(density float64, numX, numY int, h float64) *Fluid {
	if numX <= 0 || numY <= 0 {
		panic(fmt.Sprintf("fluid: invalid grid dimensions %dx%d", numX, numY))
	}
	if h <= 0 {
		panic(fmt.Sprintf("fluid: invalid cell size %g", h))
	}
	n := numX * numY
	f := &Fluid{
		Density: density,
		NumX:    numX,
		NumY:    numY,
		H:       h,
		U:       make([]float64, n),
		V:       make([]float64, n),
		P:       make([]float64, n),
		S:       make([]float64, n),
		M:       make([]float64, n),
		newU:    make([]float64, n),
		newV:    make([]float64, n),
		newM:    make([]float64, n),
	}
	for i := range f.M {
		f.M[i] = 1.0
	}
	return f
}

func (f *Fluid) NumCells() int { return f.NumX * f.NumY }

// SetRanger installs a range splitter for the advection sweeps. Pass nil
// to restore serial execution.
func (f *Fluid) SetRanger(r Ranger) { f.ranger = r }

func (f *Fluid) split(start, end int, fn func(lo, hi int)) {
	if f.ranger == nil {
		fn(start, end)
		return
	}
	f.ranger.Range(start, end, fn)
}

// SampleField bilinearly interpolates a field at world position (x, y),
// honoring the field's staggering: U is offset half a cell in y, V half a
// cell in x, and the marker half a cell in both. Coordinates are clamped
// into the valid domain and the four contributing indices are clamped to
// the last row/column, so no input can read out of bounds.
func (f *Fluid) SampleField(x, y float64, field Field) float64 {
	n := f.NumY
	h := f.H
	h1 := 1.0 / h
	h2 := 0.5 * h

	x = math.Max(math.Min(x, float64(f.NumX)*h), h)
	y = math.Max(math.Min(y, float64(f.NumY)*h), h)

	dx, dy := 0.0, 0.0
	var fld []float64
	switch field {
	case FieldU:
		fld = f.U
		dy = h2
	case FieldV:
		fld = f.V
		dx = h2
	case FieldM:
		fld = f.M
		dx = h2
		dy = h2
	default:
		panic(fmt.Sprintf("fluid: unknown field %d", field))
	}

	x0 := min(int(math.Floor((x-dx)*h1)), f.NumX-1)
	tx := ((x - dx) - float64(x0)*h) * h1
	x1 := min(x0+1, f.NumX-1)

	y0 := min(int(math.Floor((y-dy)*h1)), f.NumY-1)
	ty := ((y - dy) - float64(y0)*h) * h1
	y1 := min(y0+1, f.NumY-1)

	sx := 1.0 - tx
	sy := 1.0 - ty

	return sx*sy*fld[x0*n+y0] +
		tx*sy*fld[x1*n+y0] +
		tx*ty*fld[x1*n+y1] +
		sx*ty*fld[x0*n+y1]
}

// Divergence measures the net outflow of cell (i, j) from its face
// velocities. The projection drives this toward zero for fluid cells.
func (f *Fluid) Divergence(i, j int) float64 {
	n := f.NumY
	return f.U[(i+1)*n+j] - f.U[i*n+j] + f.V[i*n+j+1] - f.V[i*n+j]
}

// MaxDivergence scans interior fluid cells and returns the largest
// absolute divergence.
func (f *Fluid) MaxDivergence() float64 {
	maxDiv := 0.0
	n := f.NumY
	for i := 1; i < f.NumX-1; i++ {
		for j := 1; j < f.NumY-1; j++ {
			if f.S[i*n+j] == 0 {
				continue
			}
			d := math.Abs(f.Divergence(i, j))
			if d > maxDiv {
				maxDiv = d
			}
		}
	}
	return maxDiv
}
