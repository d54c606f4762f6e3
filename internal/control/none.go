package control

import "github.com/san-kum/eulerflow/internal/scene"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Name() string { return "none" }

func (n *None) OnFrame(s *scene.Scene, frame int, t float64) {}
