package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

const scenarioYAML = `name: drag-test
description: slide the obstacle downstream
scene: tunnel
resolution: 10
frames: 12
actions:
  - frame: 0
    op: place
    x: 0.5
    y: 0.5
  - frame: 2
    op: inflow
    value: 3.0
  - frame: 4
    op: drag
    x: 0.9
    y: 0.5
    duration: 3
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "drag-test" || sc.Scene != "tunnel" || sc.Frames != 12 {
		t.Errorf("unexpected scenario header: %+v", sc)
	}
	if len(sc.Actions) != 3 {
		t.Fatalf("got %d actions, want 3", len(sc.Actions))
	}
	if sc.Actions[2].Op != OpDrag || sc.Actions[2].Duration != 3 {
		t.Errorf("drag action parsed as %+v", sc.Actions[2])
	}
}

func TestScenarioValidate(t *testing.T) {
	base := Scenario{Name: "t", Scene: "tunnel", Frames: 10}

	bad := base
	bad.Scene = "wave-pool"
	if err := bad.Validate(); err == nil {
		t.Error("unknown scene should fail validation")
	}

	bad = base
	bad.Frames = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero frames should fail validation")
	}

	bad = base
	bad.Actions = []Action{{Frame: 1, Op: "explode"}}
	if err := bad.Validate(); err == nil {
		t.Error("unknown op should fail validation")
	}

	bad = base
	bad.Actions = []Action{{Frame: 1, Op: OpDrag, X: 0.5, Y: 0.5}}
	if err := bad.Validate(); err == nil {
		t.Error("drag without duration should fail validation")
	}
}

func TestScriptAppliesActions(t *testing.T) {
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatal(err)
	}

	sp := newScript([]Action{
		{Frame: 0, Op: OpPlace, X: 0.5, Y: 0.5},
		{Frame: 2, Op: OpInflow, Value: 3.0},
	})
	sp.Start(s)

	if _, _, r := s.Obstacle(); r == 0 {
		t.Fatal("frame-0 placement should apply before stepping")
	}

	runner := sim.New(s)
	runner.AddObserver(sp)
	if _, err := runner.Run(context.Background(), 3); err != nil {
		t.Fatal(err)
	}

	if got := s.Params().Inflow; got != 3.0 {
		t.Errorf("inflow after script = %g, want 3.0", got)
	}
}

func TestScriptDragReachesTarget(t *testing.T) {
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatal(err)
	}

	sp := newScript([]Action{
		{Frame: 0, Op: OpPlace, X: 0.5, Y: 0.5},
		{Frame: 1, Op: OpDrag, X: 0.9, Y: 0.4, Duration: 3},
	})
	sp.Start(s)

	runner := sim.New(s)
	runner.AddObserver(sp)
	if _, err := runner.Run(context.Background(), 6); err != nil {
		t.Fatal(err)
	}

	x, y, _ := s.Obstacle()
	if math.Abs(x-0.9) > 1e-9 || math.Abs(y-0.4) > 1e-9 {
		t.Errorf("obstacle ended at (%g, %g), want (0.9, 0.4)", x, y)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	result, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	if result.FramesRun != 12 {
		t.Errorf("frames run = %d, want 12", result.FramesRun)
	}
	if len(result.SeriesFor("max_divergence")) != 12 {
		t.Error("scenario run should collect the divergence series")
	}
}

func TestRunEnsemble(t *testing.T) {
	cfg := &EnsembleConfig{
		Scene:        "tunnel",
		Resolution:   10,
		BaseX:        0.6,
		BaseY:        0.5,
		Perturbation: 0.05,
		NumTrials:    3,
		Frames:       2,
		Seed:         7,
	}

	results, err := RunEnsemble(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d trials, want 3", len(results))
	}
	for _, r := range results {
		if math.Abs(r.X-cfg.BaseX) > cfg.Perturbation+1e-12 {
			t.Errorf("trial %d x=%g strays past the perturbation bound", r.TrialID, r.X)
		}
	}

	stable, unstable := EnsembleStats(results)
	if stable != 3 || unstable != 0 {
		t.Errorf("stats = (%d, %d), want (3, 0)", stable, unstable)
	}
}

func TestRunEnsembleRejectsBadConfig(t *testing.T) {
	_, err := RunEnsemble(context.Background(), &EnsembleConfig{Scene: "tunnel"})
	if err == nil {
		t.Fatal("zero trials should fail")
	}
}
