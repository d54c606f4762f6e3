package render

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

// Sequence writes numbered PNG frames of a running scene into a directory.
// Field snapshots are captured on the stepping goroutine; encoding happens
// on a bounded worker group so a slow disk stalls the simulation instead
// of racing it.
type Sequence struct {
	dir      string
	every    int
	cellSize int
	pool     *sim.SnapshotPool
	group    *errgroup.Group
}

func NewSequence(dir string, s *scene.Scene, every, cellSize int) (*Sequence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating frame directory: %w", err)
	}
	if every < 1 {
		every = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	return &Sequence{
		dir:      dir,
		every:    every,
		cellSize: cellSize,
		pool:     sim.NewSnapshotPool(s),
		group:    g,
	}, nil
}

// OnFrame implements the frame observer hook.
func (q *Sequence) OnFrame(s *scene.Scene, frame int, t float64) {
	if frame%q.every != 0 {
		return
	}

	snap := q.pool.Capture(s)
	display := s.Display()

	q.group.Go(func() error {
		defer q.pool.Release(snap)

		pm := Snapshot(snap, display, q.cellSize)
		path := filepath.Join(q.dir, fmt.Sprintf("frame_%05d.png", snap.Frame))
		if err := pm.SavePNG(path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	})
}

// Wait blocks until every queued frame is on disk and reports the first
// encoding failure.
func (q *Sequence) Wait() error {
	return q.group.Wait()
}
