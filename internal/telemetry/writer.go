package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/eulerflow/internal/scene"
)

// Writer appends one FrameStats row per observed frame to telemetry.csv
// inside dir. A nil Writer is valid and discards everything, so callers can
// wire it unconditionally and disable it with an empty dir.
type Writer struct {
	dir           string
	file          *os.File
	headerWritten bool
	every         int
	err           error
}

// NewWriter opens dir/telemetry.csv for appending rows. Returns nil if dir
// is empty (telemetry disabled). every controls decimation: a row is kept
// for frames where frame%every == 0; values below 1 mean every frame.
func NewWriter(dir string, every int) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}

	if every < 1 {
		every = 1
	}
	return &Writer{dir: dir, file: f, every: every}, nil
}

// OnFrame implements the frame observer hook. Write failures are sticky:
// the first one is kept and later frames are dropped.
func (w *Writer) OnFrame(s *scene.Scene, frame int, t float64) {
	if w == nil || w.err != nil {
		return
	}
	if frame%w.every != 0 {
		return
	}
	w.err = w.WriteFrame(Collect(s, frame, t))
}

func (w *Writer) WriteFrame(stats FrameStats) error {
	if w == nil {
		return nil
	}

	records := []FrameStats{stats}
	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Err reports the first write failure seen by OnFrame.
func (w *Writer) Err() error {
	if w == nil {
		return nil
	}
	return w.err
}

func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}

// ReadFile loads a telemetry.csv written by a Writer.
func ReadFile(path string) ([]FrameStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry: %w", err)
	}
	defer f.Close()

	var rows []FrameStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing telemetry: %w", err)
	}
	return rows, nil
}
