package experiment

import (
	"context"
	"testing"
)

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	names := reg.List()

	want := []string{"smoke-conservation", "tank-hydrostatics", "tunnel-shedding"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i, n := range names {
		if n != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, n, want[i])
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Get("cavity-flow", Config{}); err == nil {
		t.Fatal("Get on unknown name should fail")
	}
}

func TestTankHydrostaticsReport(t *testing.T) {
	reg := NewRegistry()
	exp, err := reg.Get("tank-hydrostatics", Config{Resolution: 10, Frames: 5})
	if err != nil {
		t.Fatal(err)
	}

	report, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Name != "tank-hydrostatics" {
		t.Errorf("report name %q", report.Name)
	}
	if report.Frames != 5 {
		t.Errorf("frames run = %d, want 5", report.Frames)
	}
	for _, key := range []string{"pressure_slope", "expected_slope", "slope_ratio", "max_divergence"} {
		if _, ok := report.Metrics[key]; !ok {
			t.Errorf("missing metric %q", key)
		}
	}
	if got := report.Metrics["expected_slope"]; got != 1000.0*-9.81 {
		t.Errorf("expected_slope = %g, want rho*g", got)
	}
	if len(report.Findings) == 0 {
		t.Error("report has no findings")
	}
}

func TestSmokeConservationReport(t *testing.T) {
	reg := NewRegistry()
	exp, err := reg.Get("smoke-conservation", Config{Resolution: 10, Frames: 5})
	if err != nil {
		t.Fatal(err)
	}

	report, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	drift, ok := report.Metrics["smoke_drift"]
	if !ok {
		t.Fatal("missing smoke_drift metric")
	}
	if drift < 0 || drift > 1 {
		t.Errorf("smoke drift %g outside [0, 1] after 5 frames", drift)
	}
}

func TestTunnelSheddingReport(t *testing.T) {
	reg := NewRegistry()
	exp, err := reg.Get("tunnel-shedding", Config{Resolution: 12, Frames: 16})
	if err != nil {
		t.Fatal(err)
	}

	report, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := report.Metrics["kinetic_energy"]; !ok {
		t.Error("missing kinetic_energy metric")
	}
	// 16 probe samples is enough for a spectrum, so the frequency keys
	// must be present even if the run is too short to actually shed.
	if _, ok := report.Metrics["shedding_freq_hz"]; !ok {
		t.Error("missing shedding_freq_hz metric")
	}
}

func TestExperimentCanceledContext(t *testing.T) {
	reg := NewRegistry()
	exp, err := reg.Get("tank-hydrostatics", Config{Resolution: 10, Frames: 50})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := exp.Run(ctx); err == nil {
		t.Fatal("run with canceled context should fail")
	}
}
