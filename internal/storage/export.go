package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/san-kum/eulerflow/internal/sim"
)

type ExportData struct {
	Scene   string               `json:"scene"`
	Dt      float64              `json:"dt"`
	Frames  int                  `json:"frames"`
	Times   []float64            `json:"times"`
	Series  map[string][]float64 `json:"series"`
	Metrics map[string]float64   `json:"metrics"`
}

func newExportData(sceneName string, dt float64, result *sim.Result) ExportData {
	return ExportData{
		Scene:   sceneName,
		Dt:      dt,
		Frames:  result.FramesRun,
		Times:   result.Times,
		Series:  result.Series,
		Metrics: result.Metrics,
	}
}

func ExportJSON(path string, sceneName string, dt float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, newExportData(sceneName, dt, result))
}

func ExportJSONStdout(sceneName string, dt float64, result *sim.Result) error {
	return writeJSON(os.Stdout, newExportData(sceneName, dt, result))
}

func writeJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the metric series as columns, one row per frame, with
// series names sorted for a stable header.
func ExportCSV(path string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeCSV(file, result)
}

// ExportCSVStdout writes the same column layout to stdout.
func ExportCSVStdout(result *sim.Result) error {
	return writeCSV(os.Stdout, result)
}

func writeCSV(out io.Writer, result *sim.Result) error {
	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(out)

	header := append([]string{"time"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.FormatFloat(t, 'f', 6, 64))
		for _, name := range names {
			series := result.Series[name]
			if i < len(series) {
				row = append(row, strconv.FormatFloat(series[i], 'f', 6, 64))
			} else {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
