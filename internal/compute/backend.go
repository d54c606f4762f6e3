package compute

import "fmt"

type Backend interface {
	Name() string
	Available() bool
	Range(start, end int, fn func(lo, hi int))
	Cleanup()
}

var activeBackend Backend = NewSerialBackend()

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// Select resolves a backend by name; the empty string means serial, and
// "auto" picks parallel when the host has cores to spare.
func Select(name string) (Backend, error) {
	switch name {
	case "", "serial":
		return NewSerialBackend(), nil
	case "parallel":
		return NewCPUBackend(), nil
	case "auto":
		return AutoSelectBackend(), nil
	}
	return nil, fmt.Errorf("compute: unknown backend %q", name)
}

func AutoSelectBackend() Backend {
	cpu := NewCPUBackend()
	if cpu.workers > 1 {
		return cpu
	}
	return NewSerialBackend()
}
