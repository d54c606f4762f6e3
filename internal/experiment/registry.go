package experiment

import (
	"fmt"
	"sort"
)

type Registry struct {
	experiments map[string]runFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		experiments: make(map[string]runFunc),
	}

	r.experiments["tank-hydrostatics"] = runTankHydrostatics
	r.experiments["tunnel-shedding"] = runTunnelShedding
	r.experiments["smoke-conservation"] = runSmokeConservation

	return r
}

func (r *Registry) Get(name string, cfg Config) (*Experiment, error) {
	fn, ok := r.experiments[name]
	if !ok {
		return nil, fmt.Errorf("unknown experiment: %s", name)
	}
	return &Experiment{name: name, cfg: cfg, run: fn}, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
