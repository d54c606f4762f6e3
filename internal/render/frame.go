package render

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

const DefaultCellSize = 4

type view struct {
	numX, numY int
	h          float64
	p, s, m    []float64

	obstacleX, obstacleY, obstacleR float64

	display scene.DisplayFlags
}

// Scene rasterizes the interior cells of a scene into a pixmap, cellSize
// pixels per grid cell, row j=1 at the bottom edge of the image.
func Scene(s *scene.Scene, cellSize int) *Pixmap {
	f := s.Fluid()
	ox, oy, or := s.Obstacle()
	return rasterize(view{
		numX: f.NumX, numY: f.NumY, h: f.H,
		p: f.P, s: f.S, m: f.M,
		obstacleX: ox, obstacleY: oy, obstacleR: or,
		display: s.Display(),
	}, cellSize)
}

// Snapshot rasterizes a captured frame. Safe to call off the stepping
// goroutine, which is the point of snapshots.
func Snapshot(snap *sim.Snapshot, display scene.DisplayFlags, cellSize int) *Pixmap {
	return rasterize(view{
		numX: snap.NumX, numY: snap.NumY, h: snap.H,
		p: snap.P, s: snap.S, m: snap.M,
		obstacleX: snap.ObstacleX, obstacleY: snap.ObstacleY, obstacleR: snap.ObstacleR,
		display: display,
	}, cellSize)
}

// CellColor resolves the display flags for a single cell. Pressure wins
// over smoke; smoke subtracts from the pressure ramp when both are on;
// plain smoke is grayscale; with everything off, solids are black on white.
func CellColor(p, s, m, pMin, pMax float64, display scene.DisplayFlags) Color {
	switch {
	case display.Pressure:
		c := SciColor(p, pMin, pMax)
		if display.Smoke {
			c.R = math.Max(0.0, c.R-255.0*m)
			c.G = math.Max(0.0, c.G-255.0*m)
			c.B = math.Max(0.0, c.B-255.0*m)
		}
		return c
	case display.Smoke && display.SmokeGradient:
		return SciColor(m, 0.0, 1.0)
	case display.Smoke:
		return Gray(255.0 * m)
	case s == 0.0:
		return Color{}
	}
	return Color{R: 255, G: 255, B: 255}
}

// PressureBounds returns the min and max pressure over every cell, the
// normalization the pressure ramp is stretched over each frame.
func PressureBounds(p []float64) (min, max float64) {
	return floats.Min(p), floats.Max(p)
}

func rasterize(v view, cellSize int) *Pixmap {
	if cellSize < 1 {
		cellSize = DefaultCellSize
	}

	w := (v.numX - 2) * cellSize
	h := (v.numY - 2) * cellSize
	pm := NewPixmap(w, h)

	var pMin, pMax float64
	if v.display.Pressure {
		pMin, pMax = PressureBounds(v.p)
	}

	n := v.numY
	for i := 1; i < v.numX-1; i++ {
		for j := 1; j < v.numY-1; j++ {
			c := CellColor(v.p[i*n+j], v.s[i*n+j], v.m[i*n+j], pMin, pMax, v.display)

			x := (i - 1) * cellSize
			y := (v.numY - 2 - j) * cellSize
			pm.FillRect(x, y, cellSize, cellSize, c)
		}
	}

	if v.obstacleR > 0 {
		drawObstacle(pm, v, cellSize)
	}
	return pm
}

func drawObstacle(pm *Pixmap, v view, cellSize int) {
	cx := (v.obstacleX/v.h - 1.0) * float64(cellSize)
	cy := float64(pm.Height()) - (v.obstacleY/v.h-1.0)*float64(cellSize)
	r := v.obstacleR / v.h * float64(cellSize)

	c := Color{R: 90, G: 90, B: 90}
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r*r {
				pm.SetPixel(x, y, c)
			}
		}
	}
}
