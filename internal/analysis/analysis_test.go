package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/eulerflow/internal/scene"
)

func TestProbeRecordsSeries(t *testing.T) {
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 20
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}

	probe := NewProbe(0.3, 0.5)
	for i := 0; i < 5; i++ {
		s.Step(p.Dt)
		probe.OnFrame(s, s.Frame(), float64(s.Frame())*p.Dt)
	}

	if probe.Len() != 5 {
		t.Fatalf("probe recorded %d samples, want 5", probe.Len())
	}
	if len(probe.U()) != 5 || len(probe.V()) != 5 {
		t.Fatalf("series lengths %d/%d, want 5/5", len(probe.U()), len(probe.V()))
	}

	// Just downstream of the inlet the stream velocity should be close
	// to the prescribed inflow.
	last := probe.U()[4]
	if math.Abs(last-2.0) > 0.5 {
		t.Errorf("probe u = %f, expected near inflow 2.0", last)
	}

	speed := probe.Speed()
	for i := range speed {
		want := math.Hypot(probe.U()[i], probe.V()[i])
		if math.Abs(speed[i]-want) > 1e-12 {
			t.Fatalf("speed[%d] = %f, want %f", i, speed[i], want)
		}
	}

	probe.Reset()
	if probe.Len() != 0 {
		t.Errorf("probe not empty after reset: %d", probe.Len())
	}
}

func TestPowerSpectrumFindsTone(t *testing.T) {
	const (
		dt   = 1.0 / 60.0
		freq = 6.0
		n    = 600
	)

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 3.0 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	spec := PowerSpectrum(samples, dt)
	if spec == nil {
		t.Fatal("expected a spectrum")
	}

	peak, power := spec.Peak()
	if power <= 0 {
		t.Fatal("expected positive peak power")
	}

	// Bin spacing is 1/(n*dt) = 0.1 Hz.
	if math.Abs(peak-freq) > 0.2 {
		t.Errorf("peak at %f Hz, want %f", peak, freq)
	}

	// The constant offset must not leak into the peak search.
	if spec.Power[0] > power {
		t.Errorf("zero bin (%f) dominates the tone (%f)", spec.Power[0], power)
	}
}

func TestPowerSpectrumDegenerateInput(t *testing.T) {
	if s := PowerSpectrum([]float64{1, 2}, 0.1); s != nil {
		t.Error("expected nil for too-short series")
	}
	if s := PowerSpectrum(make([]float64, 16), 0); s != nil {
		t.Error("expected nil for non-positive dt")
	}
}

func TestStrouhal(t *testing.T) {
	if got := Strouhal(1.5, 0.3, 2.0); math.Abs(got-0.225) > 1e-12 {
		t.Errorf("St = %f, want 0.225", got)
	}
	if got := Strouhal(1.5, 0.3, 0); got != 0 {
		t.Errorf("St with zero velocity = %f, want 0", got)
	}
}

func TestDescribe(t *testing.T) {
	stats := Describe([]float64{1, 2, 3, 4})
	if math.Abs(stats.Mean-2.5) > 1e-12 {
		t.Errorf("mean = %f, want 2.5", stats.Mean)
	}
	if stats.Min != 1 || stats.Max != 4 {
		t.Errorf("range = [%f, %f], want [1, 4]", stats.Min, stats.Max)
	}
	if stats.Std <= 0 {
		t.Errorf("std = %f, want positive", stats.Std)
	}

	if empty := Describe(nil); empty != (SeriesStats{}) {
		t.Errorf("empty input should give zero stats, got %+v", empty)
	}
}

func TestPortrait(t *testing.T) {
	n := 200
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		theta := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = math.Cos(theta)
		ys[i] = math.Sin(theta)
	}

	out := Portrait(xs, ys, 40, 20)
	if out == "" {
		t.Fatal("expected a rendered portrait")
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("expected plotted points")
	}
	if !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Error("expected axes through the origin")
	}

	if Portrait(nil, nil, 40, 20) != "" {
		t.Error("expected empty output for empty input")
	}
	if Portrait(xs, ys[:10], 40, 20) != "" {
		t.Error("expected empty output for mismatched lengths")
	}
}
