// Package tui is a dependency-free fallback view for terminals where
// the full Bubble Tea front end is unwanted: it shades the smoke field
// with block characters straight to stdout.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/eulerflow/internal/scene"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var shades = []rune{'█', '▓', '▒', '░', ' '}

// LiveRenderer prints ASCII frames of a running scene. It implements
// the runner's observer contract and drops frames to hold frameRate.
type LiveRenderer struct {
	frameRate int
	lastFrame time.Time
}

func NewLiveRenderer(frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{frameRate: frameRate}
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }

// OnFrame renders the scene if enough time has passed since the last
// printed frame.
func (r *LiveRenderer) OnFrame(s *scene.Scene, frame int, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	fmt.Print(clearScreen + r.frameString(s, frame, t))
}

// frameString builds one complete ASCII frame. Smoke maps dark to
// light through the shade ramp; solid cells print as hashes.
func (r *LiveRenderer) frameString(s *scene.Scene, frame int, t float64) string {
	f := s.Fluid()
	gridW := f.NumX - 2
	gridH := f.NumY - 2

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s  frame=%d  t=%.2fs\n", s.Params().Type, frame, t))
	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")

	for row := 0; row < height; row++ {
		b.WriteString("  |")
		for col := 0; col < width; col++ {
			i := 1 + col*gridW/width
			j := f.NumY - 2 - row*gridH/height
			idx := i*f.NumY + j

			if f.S[idx] == 0 {
				b.WriteRune('#')
				continue
			}
			m := f.M[idx]
			if m < 0 {
				m = 0
			}
			if m > 1 {
				m = 1
			}
			b.WriteRune(shades[int(m*float64(len(shades)-1))])
		}
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", width) + "+\n")
	if x, y, rad := s.Obstacle(); rad > 0 {
		b.WriteString(fmt.Sprintf("  obstacle (%.2f, %.2f)  inflow %.2f m/s\n",
			x, y, s.Params().Inflow))
	} else {
		b.WriteString(fmt.Sprintf("  inflow %.2f m/s\n", s.Params().Inflow))
	}
	return b.String()
}
