package render

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

func TestSciColorBuckets(t *testing.T) {
	tests := []struct {
		name    string
		val     float64
		r, g, b float64
	}{
		{"bottom is blue", 0.0, 0, 0, 255},
		{"quarter is cyan", 0.25, 0, 255, 255},
		{"half is green", 0.5, 0, 255, 0},
		{"three quarters is yellow", 0.75, 255, 255, 0},
		{"below min clamps to blue", -3.0, 0, 0, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SciColor(tt.val, 0.0, 1.0)
			if math.Abs(c.R-tt.r) > 1e-9 || math.Abs(c.G-tt.g) > 1e-9 || math.Abs(c.B-tt.b) > 1e-9 {
				t.Errorf("SciColor(%g) = (%g, %g, %g), want (%g, %g, %g)",
					tt.val, c.R, c.G, c.B, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestSciColorTopClamp(t *testing.T) {
	c := SciColor(1.0, 0.0, 1.0)
	if c.R != 255 {
		t.Errorf("top of ramp should be red, got (%g, %g, %g)", c.R, c.G, c.B)
	}
	if c.G <= 0 || c.G >= 1.0 {
		t.Errorf("top clamp should leave a sliver of green, got %g", c.G)
	}
}

func TestSciColorDegenerateRange(t *testing.T) {
	c := SciColor(5.0, 5.0, 5.0)
	want := Color{R: 0, G: 255, B: 0}
	if c != want {
		t.Errorf("flat field should render mid-ramp green, got (%g, %g, %g)", c.R, c.G, c.B)
	}
}

func TestPixmapSetGet(t *testing.T) {
	pm := NewPixmap(4, 4)

	pm.SetPixel(2, 1, Color{R: 10, G: 20, B: 30})
	c := pm.GetPixel(2, 1)
	if c.R != 10 || c.G != 20 || c.B != 30 {
		t.Errorf("got (%g, %g, %g), want (10, 20, 30)", c.R, c.G, c.B)
	}

	pm.SetPixel(-1, 0, Color{R: 255})
	pm.SetPixel(4, 4, Color{R: 255})
	if got := pm.GetPixel(0, 0); got.R != 0 {
		t.Errorf("out-of-range writes must be dropped, corner is (%g, %g, %g)", got.R, got.G, got.B)
	}
}

func TestPixmapClear(t *testing.T) {
	pm := NewPixmap(3, 2)
	pm.Clear(Color{R: 7, G: 8, B: 9})
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if c := pm.GetPixel(x, y); c.R != 7 || c.G != 8 || c.B != 9 {
				t.Fatalf("pixel (%d,%d) = (%g, %g, %g)", x, y, c.R, c.G, c.B)
			}
		}
	}
}

func newPaintScene(t *testing.T) *scene.Scene {
	t.Helper()
	p := scene.DefaultParams(scene.Paint)
	p.Resolution = 20
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	return s
}

func TestSceneRasterDimensions(t *testing.T) {
	s := newPaintScene(t)
	f := s.Fluid()

	pm := Scene(s, 3)
	if pm.Width() != (f.NumX-2)*3 || pm.Height() != (f.NumY-2)*3 {
		t.Errorf("pixmap %dx%d, want %dx%d",
			pm.Width(), pm.Height(), (f.NumX-2)*3, (f.NumY-2)*3)
	}
}

func TestSceneRasterSmokeGrayscale(t *testing.T) {
	p := scene.DefaultParams(scene.Tank)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	s.SetDisplay(scene.DisplayFlags{Smoke: true})

	pm := Scene(s, 1)
	c := pm.GetPixel(pm.Width()/2, pm.Height()/2)
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("full smoke should be white, got (%g, %g, %g)", c.R, c.G, c.B)
	}
}

func TestSceneRasterDrawsObstacle(t *testing.T) {
	p := scene.DefaultParams(scene.Paint)
	p.Resolution = 20
	p.ObstacleRadius = 0.2
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}
	w, h := s.Bounds()
	s.SetObstacle(w/2, h/2, true)

	pm := Scene(s, 2)
	c := pm.GetPixel(pm.Width()/2, pm.Height()/2)
	if c.R != 90 || c.G != 90 || c.B != 90 {
		t.Errorf("obstacle center should be masked gray, got (%g, %g, %g)", c.R, c.G, c.B)
	}
}

func TestCellColorPressureSmokeSubtract(t *testing.T) {
	display := scene.DisplayFlags{Pressure: true, Smoke: true}
	c := CellColor(1.0, 1.0, 1.0, 0.0, 1.0, display)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("full smoke should black out the ramp, got (%g, %g, %g)", c.R, c.G, c.B)
	}
}

func TestSequenceWritesFrames(t *testing.T) {
	p := scene.DefaultParams(scene.Tank)
	p.Resolution = 10
	s, err := scene.New(p)
	if err != nil {
		t.Fatalf("scene.New failed: %v", err)
	}

	dir := t.TempDir()
	seq, err := NewSequence(dir, s, 2, 1)
	if err != nil {
		t.Fatalf("NewSequence failed: %v", err)
	}

	r := sim.New(s)
	r.AddObserver(seq)
	if _, err := r.Run(context.Background(), 4); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if err := seq.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	for _, name := range []string{"frame_00002.png", "frame_00004.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_00001.png")); err == nil {
		t.Error("frame 1 should be skipped with every=2")
	}
}
