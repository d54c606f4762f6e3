package control

import (
	"math"
	"testing"

	"github.com/san-kum/eulerflow/internal/fluid"
	"github.com/san-kum/eulerflow/internal/scene"
)

func newTunnel(t *testing.T) *scene.Scene {
	t.Helper()
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 20
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	return s
}

func measure(s *scene.Scene, x, y float64) float64 {
	f := s.Fluid()
	u := f.SampleField(x, y, fluid.FieldU)
	v := f.SampleField(x, y, fluid.FieldV)
	return math.Hypot(u, v)
}

func TestPIDSteersInflowToTarget(t *testing.T) {
	s := newTunnel(t)
	dt := s.Params().Dt

	const (
		sensorX = 0.3
		sensorY = 0.5
		target  = 1.0
	)
	pid := NewPID(0.5, 2.0, 0.0, target, sensorX, sensorY)

	for i := 0; i < 240; i++ {
		s.Step(dt)
		pid.OnFrame(s, s.Frame(), float64(s.Frame())*dt)
	}

	got := measure(s, sensorX, sensorY)
	if math.Abs(got-target) > 0.15 {
		t.Errorf("measured speed %f, want within 0.15 of %f", got, target)
	}
	if s.Params().Inflow >= 2.0 {
		t.Errorf("inflow should have been trimmed below 2.0, got %f", s.Params().Inflow)
	}
	if pid.Effort() <= 0 {
		t.Errorf("effort should accumulate, got %f", pid.Effort())
	}
}

func TestPIDClampsCommand(t *testing.T) {
	s := newTunnel(t)
	dt := s.Params().Dt

	pid := NewPID(50.0, 0.0, 0.0, 100.0, 0.3, 0.5)
	pid.Max = 3.0

	for i := 0; i < 10; i++ {
		s.Step(dt)
		pid.OnFrame(s, s.Frame(), float64(s.Frame())*dt)
	}

	if got := s.Params().Inflow; got > 3.0+1e-9 {
		t.Errorf("inflow %f exceeds clamp 3.0", got)
	}
}

func TestPIDReset(t *testing.T) {
	s := newTunnel(t)
	dt := s.Params().Dt

	pid := NewPID(0.5, 2.0, 0.0, 1.0, 0.3, 0.5)
	for i := 0; i < 20; i++ {
		s.Step(dt)
		pid.OnFrame(s, s.Frame(), float64(s.Frame())*dt)
	}

	pid.Reset()
	if pid.Effort() != 0 {
		t.Errorf("effort after reset = %f", pid.Effort())
	}
}

func TestPIDParams(t *testing.T) {
	pid := NewPID(1.0, 0.1, 0.01, 2.0, 0.3, 0.5)

	params := pid.GetParams()
	if params["Kp"] != 1.0 || params["Target"] != 2.0 {
		t.Errorf("params = %v", params)
	}

	pid.SetParam("Kp", 3.0)
	pid.SetParam("Target", 1.5)
	if pid.Kp != 3.0 || pid.Target != 1.5 {
		t.Errorf("Kp = %f, Target = %f", pid.Kp, pid.Target)
	}
	pid.SetParam("bogus", 9.0)
}

func TestNone(t *testing.T) {
	s := newTunnel(t)
	before := s.Params().Inflow

	n := NewNone()
	if n.Name() != "none" {
		t.Errorf("name = %q", n.Name())
	}
	n.OnFrame(s, 1, 1.0/60.0)

	if s.Params().Inflow != before {
		t.Errorf("inflow changed: %f -> %f", before, s.Params().Inflow)
	}
}

func TestSetInflowIgnoredOffTunnel(t *testing.T) {
	p := scene.DefaultParams(scene.Tank)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}

	s.SetInflow(5.0)
	if s.Params().Inflow == 5.0 {
		t.Error("tank scene should ignore SetInflow")
	}
}
