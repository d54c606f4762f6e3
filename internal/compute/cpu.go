package compute

import (
	"runtime"
	"sync"
)

const minRowsPerWorker = 8

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Range(start, end int, fn func(lo, hi int)) {
	if end <= start {
		return
	}
	fn(start, end)
}

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "parallel" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

// Range splits [start, end) into per-worker chunks. Small ranges run
// inline; the chunks are disjoint, so fn needs no synchronization as
// long as it only writes inside its own rows.
func (c *CPUBackend) Range(start, end int, fn func(lo, hi int)) {
	n := end - start
	if n <= 0 {
		return
	}

	workers := c.workers
	if workers <= 1 || n < 2*minRowsPerWorker {
		fn(start, end)
		return
	}
	if n/minRowsPerWorker < workers {
		workers = n / minRowsPerWorker
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := start + w*chunkSize
		hi := lo + chunkSize
		if hi > end {
			hi = end
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
