package scene

import "errors"

var (
	// ErrUnknownScene reports a scene tag outside the four presets.
	ErrUnknownScene = errors.New("scene: unknown scene type")

	// ErrInvalidParams reports a parameter record that cannot build a scene.
	ErrInvalidParams = errors.New("scene: invalid parameters")
)
