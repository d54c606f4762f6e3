// Package control provides flow regulators that act on a scene between
// frames.
//
// Regulators implement the frame observer hook, so they attach to a run
// like any other observer:
//
//   - [PID]: Proportional-Integral-Derivative trim of the tunnel inflow
//   - [None]: passthrough regulator
//
// # Usage
//
//	pid := control.NewPID(0.5, 2.0, 0.0, 1.0, 0.3, 0.5)
//	runner.AddObserver(pid)
//
// The PID reads the speed at its sensing point after every frame and
// rewrites the inlet column, steering the measured speed onto the target.
// Regulators supporting GetParams/SetParam allow live tuning.
package control
