// Package export renders simulation output as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/eulerflow/internal/render"
	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/viz"
)

// CanvasToSVG converts a braille flow overlay to SVG, one dot per lit
// sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots a metric time series as a polyline with 10% padding
// around the data bounds.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := range times {
		if times[i] < minX {
			minX = times[i]
		}
		if times[i] > maxX {
			maxX = times[i]
		}
		if values[i] < minY {
			minY = values[i]
		}
		if values[i] > maxY {
			maxY = values[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// FieldToSVG renders the current field as a rectangle heatmap, colored
// by the same rules as the raster renderer, with the obstacle drawn as
// an outlined circle on top.
func FieldToSVG(s *scene.Scene, cellPx float64) string {
	if cellPx <= 0 {
		cellPx = 6
	}
	f := s.Fluid()
	display := s.Display()
	gridW := f.NumX - 2
	gridH := f.NumY - 2

	var pMin, pMax float64
	if display.Pressure {
		pMin, pMax = render.PressureBounds(f.P)
	}

	width := float64(gridW) * cellPx
	height := float64(gridH) * cellPx

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))

	for i := 1; i < f.NumX-1; i++ {
		for j := 1; j < f.NumY-1; j++ {
			idx := i*f.NumY + j
			c := render.CellColor(f.P[idx], f.S[idx], f.M[idx], pMin, pMax, display)

			x := float64(i-1) * cellPx
			y := height - float64(j)*cellPx
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, x, y, cellPx, cellPx, int(c.R), int(c.G), int(c.B)))
		}
	}

	if x, y, r := s.Obstacle(); r > 0 {
		cx := (x/f.H - 1) * cellPx
		cy := height - (y/f.H-1)*cellPx
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ffffff" stroke-width="2"/>
`, cx, cy, (r+f.H)/f.H*cellPx))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
