// Package fluid implements a 2D incompressible-flow solver on a fixed
// staggered (MAC) grid.
//
// The package owns the per-cell field arrays and the numerical kernels
// that advance them:
//
//   - [Fluid]: grid field store (velocity, pressure, solid mask, marker)
//   - [Fluid.SampleField]: stagger-aware bilinear interpolation
//   - [Fluid.SolveIncompressibility]: Gauss-Seidel pressure projection
//   - [Fluid.AdvectVelocity], [Fluid.AdvectSmoke]: semi-Lagrangian advection
//
// All fields share one flat row-major layout: cell (i, j) lives at index
// i*NumY + j, so the x-neighbor offset is NumY and the y-neighbor offset
// is 1. Every kernel in this package depends on that convention.
//
// # Example
//
//	f := fluid.New(1000.0, numX, numY, h)
//	f.Integrate(dt, gravity)
//	f.ClearPressure()
//	f.SolveIncompressibility(40, dt, 1.9)
//	f.Extrapolate()
//	f.AdvectVelocity(dt)
//	f.AdvectSmoke(dt)
//
// # Thread Safety
//
// A Fluid is NOT safe for concurrent use. One step mutates the fields in
// place and must finish before anything else reads them. The projection
// sweep is sequential by construction (later cells see earlier updates in
// the same sweep); only the advection passes may be split across
// goroutines, which [Fluid.SetRanger] enables.
package fluid
