// Package compute provides execution backends for the solver's
// data-parallel sweeps.
//
// A backend splits a row range across workers:
//
//	backend, _ := compute.Select("parallel")
//	backend.Range(1, numX, func(lo, hi int) { ... })
//
// Only the advection passes use this: each advected sample depends purely
// on the previous field, so rows can be processed independently. The
// pressure projection must never be split this way. It is sequential
// Gauss-Seidel, and over-relaxation depends on corrections being visible
// within the same sweep.
package compute
