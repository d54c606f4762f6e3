package experiment

import (
	"context"
)

// Config carries the knobs shared by every canned study. Zero values fall
// back to study-specific defaults.
type Config struct {
	Frames     int
	Resolution int
	Params     map[string]float64
}

// Report is what a study leaves behind: headline numbers plus the
// human-readable findings the CLI prints.
type Report struct {
	Name     string
	Scene    string
	Frames   int
	Metrics  map[string]float64
	Findings []string
}

type runFunc func(ctx context.Context, cfg Config) (*Report, error)

type Experiment struct {
	name string
	cfg  Config
	run  runFunc
}

func (e *Experiment) Name() string {
	return e.name
}

func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	return e.run(ctx, e.cfg)
}
