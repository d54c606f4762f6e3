// Package automation runs scripted simulations: YAML scenarios that
// place and drag the obstacle or retune the inflow at chosen frames,
// and randomized ensembles over obstacle placements.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eulerflow/internal/metrics"
	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Scene       string   `yaml:"scene"`
	Resolution  int      `yaml:"resolution,omitempty"`
	Frames      int      `yaml:"frames"`
	Actions     []Action `yaml:"actions"`
}

// Action is a single scripted event. Place teleports the obstacle to
// (x, y), drag slides it there over duration frames imparting velocity
// on the way, inflow rewrites the inlet speed. Coordinates are world
// units; the visible domain spans roughly 1.78 by 1.0.
type Action struct {
	Frame    int     `yaml:"frame"`
	Op       string  `yaml:"op"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	Value    float64 `yaml:"value,omitempty"`
	Duration int     `yaml:"duration,omitempty"`
}

const (
	OpPlace  = "place"
	OpDrag   = "drag"
	OpInflow = "inflow"
)

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks the scenario before it runs.
func (sc *Scenario) Validate() error {
	if _, err := scene.ParseType(sc.Scene); err != nil {
		return err
	}
	if sc.Frames <= 0 {
		return fmt.Errorf("scenario %q: frames must be positive, got %d", sc.Name, sc.Frames)
	}
	for i, a := range sc.Actions {
		switch a.Op {
		case OpPlace, OpInflow:
		case OpDrag:
			if a.Duration <= 0 {
				return fmt.Errorf("scenario %q action %d: drag needs a positive duration", sc.Name, i+1)
			}
		default:
			return fmt.Errorf("scenario %q action %d: unknown op %q", sc.Name, i+1, a.Op)
		}
	}
	return nil
}

// script replays scenario actions against a running scene. It attaches
// to the runner as an observer, so scheduled frames refer to completed
// steps; actions at frame zero are applied by Start before stepping.
type script struct {
	actions []Action

	dragTarget Action
	dragStart  int
	fromX      float64
	fromY      float64
	dragging   bool
}

func newScript(actions []Action) *script {
	return &script{actions: actions}
}

// Start applies every action scheduled before the first step.
func (sc *script) Start(s *scene.Scene) {
	for _, a := range sc.actions {
		if a.Frame <= 0 {
			sc.apply(s, a, 0)
		}
	}
}

func (sc *script) OnFrame(s *scene.Scene, frame int, t float64) {
	for _, a := range sc.actions {
		if a.Frame == frame {
			sc.apply(s, a, frame)
		}
	}
	if sc.dragging {
		sc.advanceDrag(s, frame)
	}
}

func (sc *script) apply(s *scene.Scene, a Action, frame int) {
	switch a.Op {
	case OpPlace:
		s.SetObstacle(a.X, a.Y, true)
	case OpInflow:
		s.SetInflow(a.Value)
	case OpDrag:
		x, y, r := s.Obstacle()
		if r == 0 {
			s.SetObstacle(a.X, a.Y, true)
			return
		}
		sc.dragTarget = a
		sc.dragStart = frame
		sc.fromX, sc.fromY = x, y
		sc.dragging = true
	}
}

func (sc *script) advanceDrag(s *scene.Scene, frame int) {
	progress := float64(frame-sc.dragStart) / float64(sc.dragTarget.Duration)
	if progress >= 1 {
		progress = 1
		sc.dragging = false
	}
	if progress <= 0 {
		return
	}
	x := sc.fromX + (sc.dragTarget.X-sc.fromX)*progress
	y := sc.fromY + (sc.dragTarget.Y-sc.fromY)*progress
	s.SetObstacle(x, y, false)
}

// RunScenario executes a scenario and reports the collected series.
func RunScenario(ctx context.Context, scenario *Scenario) (*sim.Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	t, err := scene.ParseType(scenario.Scene)
	if err != nil {
		return nil, err
	}
	p := scene.DefaultParams(t)
	if scenario.Resolution > 0 {
		p.Resolution = scenario.Resolution
	}

	s, err := scene.New(p)
	if err != nil {
		return nil, err
	}

	sp := newScript(scenario.Actions)
	sp.Start(s)

	r := sim.New(s)
	r.AddMetric(metrics.NewMaxDivergence())
	r.AddMetric(metrics.NewKineticEnergy())
	r.AddMetric(metrics.NewSmokeMass())
	r.AddObserver(sp)

	fmt.Printf("Running scenario %s: %d frames, %d actions\n",
		scenario.Name, scenario.Frames, len(scenario.Actions))

	return r.Run(ctx, scenario.Frames)
}

// EnsembleConfig drives repeated runs with the obstacle jittered around
// a base position.
type EnsembleConfig struct {
	Scene        string
	Resolution   int
	BaseX        float64
	BaseY        float64
	Perturbation float64
	NumTrials    int
	Frames       int
	Seed         int64
}

// TrialResult holds the outcome of one ensemble member.
type TrialResult struct {
	TrialID       int
	X             float64
	Y             float64
	MaxDivergence float64
	KineticEnergy float64
	Stable        bool
}

// RunEnsemble executes trials with randomly perturbed obstacle
// placements. A trial counts as stable when its worst divergence and
// final energy stayed finite and bounded.
func RunEnsemble(ctx context.Context, cfg *EnsembleConfig) ([]TrialResult, error) {
	t, err := scene.ParseType(cfg.Scene)
	if err != nil {
		return nil, err
	}
	if cfg.NumTrials <= 0 || cfg.Frames <= 0 {
		return nil, fmt.Errorf("ensemble needs positive trials and frames")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]TrialResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		p := scene.DefaultParams(t)
		if cfg.Resolution > 0 {
			p.Resolution = cfg.Resolution
		}
		s, err := scene.New(p)
		if err != nil {
			return results, err
		}

		x := cfg.BaseX + (rng.Float64()-0.5)*2*cfg.Perturbation
		y := cfg.BaseY + (rng.Float64()-0.5)*2*cfg.Perturbation
		s.SetObstacle(x, y, true)

		r := sim.New(s)
		r.AddMetric(metrics.NewMaxDivergence())
		r.AddMetric(metrics.NewKineticEnergy())

		result, err := r.Run(ctx, cfg.Frames)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial+1, err)
		}

		div := result.Metrics["max_divergence"]
		energy := result.Metrics["kinetic_energy"]
		stable := !math.IsNaN(div) && !math.IsNaN(energy) && energy < 1e9

		results = append(results, TrialResult{
			TrialID:       trial,
			X:             x,
			Y:             y,
			MaxDivergence: div,
			KineticEnergy: energy,
			Stable:        stable,
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("Ensemble: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// EnsembleStats counts stable and unstable trials.
func EnsembleStats(results []TrialResult) (stableCount, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
