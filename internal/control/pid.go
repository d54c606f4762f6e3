package control

import (
	"math"

	"github.com/san-kum/eulerflow/internal/fluid"
	"github.com/san-kum/eulerflow/internal/scene"
)

// PID holds the speed at a sensing point on a setpoint by trimming the
// tunnel inflow after every frame. The command is the base inflow captured
// on the first frame plus the PID correction, clamped to [Min, Max].
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	Min    float64
	Max    float64

	sensorX float64
	sensorY float64

	base     float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
	effort   float64
}

func NewPID(kp, ki, kd, target, sensorX, sensorY float64) *PID {
	return &PID{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		Min:     0.0,
		Max:     10.0,
		sensorX: sensorX,
		sensorY: sensorY,
		first:   true,
	}
}

func (p *PID) Name() string { return "pid" }

// OnFrame implements the frame observer hook.
func (p *PID) OnFrame(s *scene.Scene, frame int, t float64) {
	f := s.Fluid()
	u := f.SampleField(p.sensorX, p.sensorY, fluid.FieldU)
	v := f.SampleField(p.sensorX, p.sensorY, fluid.FieldV)
	measured := math.Hypot(u, v)

	err := p.Target - measured

	if p.first {
		p.base = s.Params().Inflow
		p.prevErr = err
		p.prevT = t
		p.first = false
		p.command(s, p.Kp*err, 0)
		return
	}

	dt := t - p.prevT
	if dt <= 0 {
		p.command(s, p.Kp*err, 0)
		return
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt

	out := p.Kp*err + p.Ki*p.integral + p.Kd*derivative

	p.prevErr = err
	p.prevT = t
	p.command(s, out, dt)
}

func (p *PID) command(s *scene.Scene, out, dt float64) {
	cmd := math.Min(math.Max(p.base+out, p.Min), p.Max)
	s.SetInflow(cmd)
	p.effort += math.Abs(cmd-p.base) * dt
}

// Effort is the time integral of the absolute inflow correction.
func (p *PID) Effort() float64 {
	return p.effort
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.effort = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
