// Package scene drives the fluid solver through its per-frame pipeline
// and owns the four boundary-condition presets (wind tunnel, hires
// tunnel, tank, paint) plus movable-obstacle placement.
package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/eulerflow/internal/fluid"
)

const (
	SimHeight      = 1.0
	Density        = 1000.0
	Gravity        = -9.81
	Timestep       = 1.0 / 60.0
	NumIters       = 40
	OverRelaxation = 1.9
	ObstacleRadius = 0.15
	VelocityIn     = 2.0
)

type Type int

const (
	WindTunnel Type = iota
	HiresTunnel
	Tank
	Paint
)

func (t Type) String() string {
	switch t {
	case WindTunnel:
		return "tunnel"
	case HiresTunnel:
		return "hires-tunnel"
	case Tank:
		return "tank"
	case Paint:
		return "paint"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func ParseType(name string) (Type, error) {
	switch name {
	case "tunnel", "wind-tunnel":
		return WindTunnel, nil
	case "hires-tunnel", "hires":
		return HiresTunnel, nil
	case "tank":
		return Tank, nil
	case "paint":
		return Paint, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// DisplayFlags mirror the presentation toggles a consumer shell exposes.
// They never influence the numerics.
type DisplayFlags struct {
	Streamlines   bool
	Velocities    bool
	Pressure      bool
	Smoke         bool
	SmokeGradient bool
}

// Params is the plain-data record a scene variant is built from. Each
// preset supplies its own defaults through [DefaultParams]; every field
// may be overridden before construction.
type Params struct {
	Type           Type
	Width          float64
	Height         float64
	Resolution     int
	Density        float64
	Dt             float64
	NumIters       int
	OverRelaxation float64
	Gravity        float64
	Inflow         float64
	ObstacleRadius float64
	Display        DisplayFlags
}

// DefaultParams returns the preset record for a scene type: tank runs at
// half resolution with gravity on, the hires tunnel halves the timestep
// and raises the iteration budget, paint drops over-relaxation to neutral
// and shrinks the obstacle.
func DefaultParams(t Type) Params {
	p := Params{
		Type:           t,
		Width:          160.0,
		Height:         90.0,
		Resolution:     100,
		Density:        Density,
		Dt:             Timestep,
		NumIters:       NumIters,
		OverRelaxation: OverRelaxation,
		Gravity:        0.0,
		Inflow:         VelocityIn,
		ObstacleRadius: ObstacleRadius,
		Display:        DisplayFlags{Smoke: true},
	}
	switch t {
	case HiresTunnel:
		p.Dt = 1.0 / 120.0
		p.NumIters = 100
		p.Display.Pressure = true
	case Tank:
		p.Resolution = 50
		p.Gravity = Gravity
		p.Display = DisplayFlags{Pressure: true}
	case Paint:
		p.OverRelaxation = 1.0
		p.ObstacleRadius = 0.05
		p.Display.SmokeGradient = true
	}
	return p
}

func (p Params) validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: domain extent %gx%g", ErrInvalidParams, p.Width, p.Height)
	case p.Resolution < 4:
		return fmt.Errorf("%w: resolution %d, need at least 4", ErrInvalidParams, p.Resolution)
	case p.Density <= 0:
		return fmt.Errorf("%w: density must be positive, got %g", ErrInvalidParams, p.Density)
	case p.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	case p.NumIters <= 0:
		return fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidParams, p.NumIters)
	case p.OverRelaxation <= 0 || p.OverRelaxation >= 2:
		return fmt.Errorf("%w: over-relaxation %g outside (0, 2)", ErrInvalidParams, p.OverRelaxation)
	case p.ObstacleRadius <= 0:
		return fmt.Errorf("%w: obstacle radius must be positive, got %g", ErrInvalidParams, p.ObstacleRadius)
	}
	return nil
}

// Scene couples a parameter record to one Fluid store. Switching scene
// type means discarding the Scene and constructing a fresh one; fields
// are only ever mutated in place between construction and teardown.
type Scene struct {
	params  Params
	fluid   *fluid.Fluid
	domainW float64
	domainH float64

	frame       int
	dt          float64
	obstacleX   float64
	obstacleY   float64
	hasObstacle bool
}

// New derives the grid from the preset's resolution and the display
// aspect ratio, allocates the field store, and applies the scene's
// boundary setup.
func New(p Params) (*Scene, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	domainH := SimHeight
	domainW := domainH / p.Height * p.Width
	h := domainH / float64(p.Resolution)
	numX := int(math.Floor(domainW/h)) + 2
	numY := int(math.Floor(domainH/h)) + 2

	s := &Scene{
		params:  p,
		fluid:   fluid.New(p.Density, numX, numY, h),
		domainW: domainW,
		domainH: domainH,
		dt:      p.Dt,
	}

	switch p.Type {
	case WindTunnel, HiresTunnel:
		s.setupTunnel()
	case Tank:
		s.setupTank()
	case Paint:
		s.setupPaint()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownScene, int(p.Type))
	}
	return s, nil
}

func (s *Scene) Fluid() *fluid.Fluid { return s.fluid }
func (s *Scene) Params() Params      { return s.params }
func (s *Scene) Frame() int          { return s.frame }

// Bounds reports the world-space extent of the visible domain.
func (s *Scene) Bounds() (w, h float64) { return s.domainW, s.domainH }

// Obstacle reports the last accepted obstacle center and the radius. The
// radius is zero until a placement has been accepted.
func (s *Scene) Obstacle() (x, y, r float64) {
	if !s.hasObstacle {
		return 0, 0, 0
	}
	return s.obstacleX, s.obstacleY, s.params.ObstacleRadius
}

// Display reports the presentation flags carried by the scene.
func (s *Scene) Display() DisplayFlags { return s.params.Display }

// SetDisplay replaces the presentation flags. Numerics are unaffected.
func (s *Scene) SetDisplay(d DisplayFlags) { s.params.Display = d }

// SetInflow rewrites the inlet face velocity of a tunnel scene and records
// it in the parameters. The inlet column sits beside a solid border, so
// neither projection nor advection touches it and the value holds until
// the next call. Non-tunnel scenes ignore the call.
func (s *Scene) SetInflow(v float64) {
	if s.params.Type != WindTunnel && s.params.Type != HiresTunnel {
		return
	}
	s.params.Inflow = v

	f := s.fluid
	for j := 0; j < f.NumY; j++ {
		f.U[f.NumY+j] = v
	}
}

// Step advances the simulation one frame: gravity, pressure clear,
// projection, boundary extrapolation, then velocity and smoke advection.
// The order is load-bearing; see the package documentation of fluid.
func (s *Scene) Step(dt float64) {
	s.dt = dt

	f := s.fluid
	f.Integrate(dt, s.params.Gravity)
	f.ClearPressure()
	f.SolveIncompressibility(s.params.NumIters, dt, s.params.OverRelaxation)
	f.Extrapolate()
	f.AdvectVelocity(dt)
	f.AdvectSmoke(dt)

	s.frame++
}

// SetObstacle redefines the movable-obstacle mask around a world-space
// center. Positions outside the interior margin are silently ignored.
// A reset placement teleports the obstacle; otherwise the displacement
// since the previous call, divided by the last step's dt, is stamped
// onto the covered faces as imparted velocity.
func (s *Scene) SetObstacle(x, y float64, reset bool) {
	if x < 0.2 || x > s.domainW-0.1 || y < 0.1 || y > s.domainH-0.1 {
		return
	}

	vx, vy := 0.0, 0.0
	if !reset {
		vx = (x - s.obstacleX) / s.dt
		vy = (y - s.obstacleY) / s.dt
	}
	s.obstacleX = x
	s.obstacleY = y
	s.hasObstacle = true

	f := s.fluid
	r := s.params.ObstacleRadius
	n := f.NumY
	h := f.H

	dye := 1.0
	if s.params.Type == Paint {
		dye = 0.5 + 0.5*math.Sin(0.2)
	}

	for i := 1; i < f.NumX-2; i++ {
		for j := 1; j < f.NumY-2; j++ {
			f.S[i*n+j] = 1.0

			dx := (float64(i)+0.5)*h - x
			dy := (float64(j)+0.5)*h - y
			if dx*dx+dy*dy < r*r {
				f.S[i*n+j] = 0.0
				f.M[i*n+j] = dye
				f.U[i*n+j] = vx
				f.U[(i+1)*n+j] = vx
				f.V[i*n+j] = vy
				f.V[i*n+(j+1)] = vy
			}
		}
	}
}
