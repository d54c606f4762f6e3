package sim

import (
	"sync"

	"github.com/san-kum/eulerflow/internal/scene"
)

// Snapshot is a copy of every field in a scene at one frame, safe to hand
// to another goroutine while the stepper keeps mutating the live grid.
type Snapshot struct {
	Frame      int
	Time       float64
	NumX, NumY int
	H          float64

	U, V, P, S, M []float64

	ObstacleX, ObstacleY, ObstacleR float64
}

type SnapshotPool struct {
	pool  sync.Pool
	cells int
}

func NewSnapshotPool(s *scene.Scene) *SnapshotPool {
	n := s.Fluid().NumCells()
	return &SnapshotPool{
		cells: n,
		pool: sync.Pool{
			New: func() interface{} {
				return &Snapshot{
					U: make([]float64, n),
					V: make([]float64, n),
					P: make([]float64, n),
					S: make([]float64, n),
					M: make([]float64, n),
				}
			},
		},
	}
}

func (p *SnapshotPool) Capture(s *scene.Scene) *Snapshot {
	snap := p.pool.Get().(*Snapshot)
	f := s.Fluid()

	snap.Frame = s.Frame()
	snap.Time = float64(s.Frame()) * s.Params().Dt
	snap.NumX, snap.NumY = f.NumX, f.NumY
	snap.H = f.H

	copy(snap.U, f.U)
	copy(snap.V, f.V)
	copy(snap.P, f.P)
	copy(snap.S, f.S)
	copy(snap.M, f.M)

	snap.ObstacleX, snap.ObstacleY, snap.ObstacleR = s.Obstacle()
	return snap
}

func (p *SnapshotPool) Release(snap *Snapshot) {
	if snap != nil && len(snap.M) == p.cells {
		p.pool.Put(snap)
	}
}
