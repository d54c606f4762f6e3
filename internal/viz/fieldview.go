package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eulerflow/internal/fluid"
	"github.com/san-kum/eulerflow/internal/render"
	"github.com/san-kum/eulerflow/internal/scene"
)

// FieldView rasterizes the scene into a block of truecolor half-block
// characters, cols wide and rows tall. Each character carries two
// vertically stacked samples through its foreground and background.
func FieldView(s *scene.Scene, cols, rows int) string {
	f := s.Fluid()
	display := s.Display()
	gridW := f.NumX - 2
	gridH := f.NumY - 2
	if cols <= 0 || rows <= 0 || gridW <= 0 || gridH <= 0 {
		return ""
	}

	var pMin, pMax float64
	if display.Pressure {
		pMin, pMax = render.PressureBounds(f.P)
	}

	ox, oy, oR := s.Obstacle()
	gizmo := render.Color{}
	if display.Pressure && display.Smoke {
		gizmo = render.Color{R: 255, G: 255, B: 255}
	}

	sample := func(px, py int) render.Color {
		i := 1 + px*gridW/cols
		j := f.NumY - 2 - py*gridH/(2*rows)
		idx := i*f.NumY + j
		c := render.CellColor(f.P[idx], f.S[idx], f.M[idx], pMin, pMax, display)

		if oR > 0 {
			wx := (float64(i) + 0.5) * f.H
			wy := (float64(j) + 0.5) * f.H
			d := math.Hypot(wx-ox, wy-oy)
			if math.Abs(d-(oR+f.H)) < f.H {
				return gizmo
			}
		}
		return c
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := sample(col, 2*row)
			bot := sample(col, 2*row+1)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(int(top.R), int(top.G), int(top.B)))).
				Background(lipgloss.Color(hexColor(int(bot.R), int(bot.G), int(bot.B))))
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DrawFlowOverlay traces the velocity field onto a braille canvas:
// domain border, streamlines, per-cell velocity ticks and the obstacle
// gizmo, honoring the scene's display flags.
func DrawFlowOverlay(c *Canvas, s *scene.Scene) {
	f := s.Fluid()
	display := s.Display()

	w2 := c.Width * 2
	h4 := c.Height * 4
	spanX := float64(f.NumX-2) * f.H
	spanY := float64(f.NumY-2) * f.H

	toPx := func(x, y float64) (int, int) {
		px := int((x - f.H) / spanX * float64(w2-1))
		py := h4 - 1 - int((y-f.H)/spanY*float64(h4-1))
		return px, py
	}

	c.DrawLine(0, 0, w2-1, 0)
	c.DrawLine(0, h4-1, w2-1, h4-1)
	c.DrawLine(0, 0, 0, h4-1)
	c.DrawLine(w2-1, 0, w2-1, h4-1)

	if display.Streamlines {
		drawStreamlines(c, f, toPx)
	}
	if display.Velocities {
		drawVelocities(c, f, toPx)
	}

	if x, y, r := s.Obstacle(); r > 0 {
		px, py := toPx(x, y)
		rpx := int((r + f.H) / spanX * float64(w2-1))
		c.DrawCircle(px, py, rpx)
	}
}

// drawStreamlines traces short particle paths seeded on a coarse grid,
// advancing 0.01 seconds of travel per segment.
func drawStreamlines(c *Canvas, f *fluid.Fluid, toPx func(x, y float64) (int, int)) {
	const (
		numSegs = 15
		stride  = 4
	)

	maxX := float64(f.NumX) * f.H
	for i := 1; i < f.NumX-1; i += stride {
		for j := 1; j < f.NumY-1; j += stride {
			x := (float64(i) + 0.5) * f.H
			y := (float64(j) + 0.5) * f.H

			for seg := 0; seg < numSegs; seg++ {
				u := f.SampleField(x, y, fluid.FieldU)
				v := f.SampleField(x, y, fluid.FieldV)
				nx := x + u*0.01
				ny := y + v*0.01
				if nx > maxX {
					break
				}
				x0, y0 := toPx(x, y)
				x1, y1 := toPx(nx, ny)
				c.DrawLine(x0, y0, x1, y1)
				x, y = nx, ny
			}
		}
	}
}

// drawVelocities draws a tick per face proportional to the face speed.
func drawVelocities(c *Canvas, f *fluid.Fluid, toPx func(x, y float64) (int, int)) {
	const scale = 0.02

	n := f.NumY
	for i := 1; i < f.NumX-1; i++ {
		for j := 1; j < f.NumY-1; j++ {
			u := f.U[i*n+j]
			v := f.V[i*n+j]

			x0, y0 := toPx(float64(i)*f.H, (float64(j)+0.5)*f.H)
			x1, _ := toPx(float64(i)*f.H+u*scale, (float64(j)+0.5)*f.H)
			c.DrawLine(x0, y0, x1, y0)

			x2, y2 := toPx((float64(i)+0.5)*f.H, float64(j)*f.H)
			_, y3 := toPx((float64(i)+0.5)*f.H, float64(j)*f.H+v*scale)
			c.DrawLine(x2, y2, x2, y3)
		}
	}
}
