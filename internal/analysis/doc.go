// Package analysis extracts signals from simulation runs.
//
// The package works on probe time series recorded during a run:
//
//   - [Probe]: interpolated velocity series at a fixed world point
//   - [PowerSpectrum]: one-sided spectrum of a series
//   - [Strouhal]: dimensionless shedding frequency
//   - [Describe]: mean, deviation and range of a series
//   - [Portrait]: ASCII phase portrait of two series
//
// # Vortex Shedding
//
// Behind a bluff body the cross-stream velocity oscillates at the
// shedding frequency. A probe a diameter or two downstream picks it up:
//
//	probe := analysis.NewProbe(1.0, 0.5)
//	runner.AddObserver(probe)
//	runner.Run(ctx, 1200)
//
//	spec := analysis.PowerSpectrum(probe.V(), dt)
//	f, _ := spec.Peak()
//	st := analysis.Strouhal(f, 0.3, 2.0)
package analysis
