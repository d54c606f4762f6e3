package tui

import (
	"strings"
	"testing"

	"github.com/san-kum/eulerflow/internal/scene"
)

func TestFrameStringLayout(t *testing.T) {
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatal(err)
	}

	r := NewLiveRenderer(30)
	out := r.frameString(s, 3, 0.05)

	if !strings.Contains(out, "tunnel") || !strings.Contains(out, "frame=3") {
		t.Error("frame header missing scene name or frame counter")
	}
	// header, two border rows, field rows, footer
	if got := strings.Count(out, "\n"); got != height+4 {
		t.Errorf("frame has %d lines, want %d", got, height+4)
	}
}

func TestFrameStringShowsObstacle(t *testing.T) {
	p := scene.DefaultParams(scene.WindTunnel)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatal(err)
	}
	s.SetObstacle(0.6, 0.5, true)

	r := NewLiveRenderer(30)
	out := r.frameString(s, 1, 0.0)
	if !strings.Contains(out, "obstacle (0.60, 0.50)") {
		t.Error("footer should report the obstacle position")
	}
	if !strings.Contains(out, "#") {
		t.Error("obstacle cells should render as hashes")
	}
}

func TestLiveRendererRateLimit(t *testing.T) {
	r := NewLiveRenderer(0)
	if r.frameRate != 30 {
		t.Errorf("zero rate should default to 30, got %d", r.frameRate)
	}
}
