package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Frames     int                `json:"frames"`
	Dt         float64            `json:"dt"`
	Resolution int                `json:"resolution"`
	NumX       int                `json:"num_x"`
	NumY       int                `json:"num_y"`
	H          float64            `json:"h"`
	Metrics    map[string]float64 `json:"metrics"`
}

type FieldDump struct {
	NumX, NumY int
	S, P, M    []float64
	U, V       []float64
}

func (s *Store) Save(sc *scene.Scene, result *sim.Result) (string, error) {
	p := sc.Params()
	runID := fmt.Sprintf("%s_%d", p.Type, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f := sc.Fluid()
	meta := RunMetadata{
		ID:         runID,
		Scene:      p.Type.String(),
		Timestamp:  time.Now(),
		Frames:     sc.Frame(),
		Dt:         p.Dt,
		Resolution: p.Resolution,
		NumX:       f.NumX,
		NumY:       f.NumY,
		H:          f.H,
	}
	if result != nil {
		meta.Metrics = result.Metrics
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "fields.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	if err := w.Write([]string{"i", "j", "s", "p", "m", "u", "v"}); err != nil {
		return "", err
	}

	n := f.NumY
	for i := 0; i < f.NumX; i++ {
		for j := 0; j < f.NumY; j++ {
			k := i*n + j
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.FormatFloat(f.S[k], 'f', 6, 64),
				strconv.FormatFloat(f.P[k], 'f', 6, 64),
				strconv.FormatFloat(f.M[k], 'f', 6, 64),
				strconv.FormatFloat(f.U[k], 'f', 6, 64),
				strconv.FormatFloat(f.V[k], 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if result != nil && len(result.Times) > 0 {
		seriesFile, err := os.Create(filepath.Join(runDir, "series.csv"))
		if err != nil {
			return "", err
		}
		defer seriesFile.Close()
		if err := writeCSV(seriesFile, result); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads back the per-frame metric columns recorded for a run.
func (s *Store) LoadSeries(runID string) (times []float64, series map[string][]float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "time" {
		return nil, nil, fmt.Errorf("run %s has a malformed series file", runID)
	}

	names := records[0][1:]
	series = make(map[string][]float64, len(names))
	for _, name := range names {
		series[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for col, name := range names {
			val, _ := strconv.ParseFloat(record[col+1], 64)
			series[name] = append(series[name], val)
		}
	}

	return times, series, nil
}

func (s *Store) LoadFields(runID string) (*FieldDump, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	if meta.NumX <= 0 || meta.NumY <= 0 {
		return nil, fmt.Errorf("run %s has no grid dimensions", runID)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "fields.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	numCells := meta.NumX * meta.NumY
	dump := &FieldDump{
		NumX: meta.NumX,
		NumY: meta.NumY,
		S:    make([]float64, numCells),
		P:    make([]float64, numCells),
		M:    make([]float64, numCells),
		U:    make([]float64, numCells),
		V:    make([]float64, numCells),
	}

	for idx := 1; idx < len(records); idx++ {
		record := records[idx]
		if len(record) < 7 {
			continue
		}

		i, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		j, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		if i < 0 || i >= meta.NumX || j < 0 || j >= meta.NumY {
			continue
		}

		k := i*meta.NumY + j
		dsts := []*float64{&dump.S[k], &dump.P[k], &dump.M[k], &dump.U[k], &dump.V[k]}
		for col, dst := range dsts {
			val, err := strconv.ParseFloat(record[col+2], 64)
			if err != nil {
				continue
			}
			*dst = val
		}
	}

	return dump, nil
}
