package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
	logger  *zap.Logger
}

func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// RunMetadata describes one saved run. Error is set when the run stopped
// early on a degenerate step.
type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Controller string             `json:"controller"`
	BoatModel  string             `json:"boat_model"`
	Steps      int                `json:"steps"`
	Params     map[string]float64 `json:"params"`
	FinalState kite.State         `json:"final_state"`
	Metrics    map[string]float64 `json:"metrics"`
	Error      string             `json:"error,omitempty"`
}

// NewRunID returns "<preset>_<first 8 hex digits of a random UUID>".
func NewRunID(preset string) string {
	if preset == "" {
		preset = "run"
	}
	return fmt.Sprintf("%s_%s", preset, uuid.NewString()[:8])
}

// Save writes metadata.json and states.csv for result into a new run
// directory. ID, Timestamp, Steps, FinalState and Metrics are filled in
// from the result; the rest of meta is stored as given.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = NewRunID(meta.Preset)
	meta.Timestamp = time.Now().UTC()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	if n := len(result.States); n > 0 {
		meta.FinalState = result.States[n-1]
	}

	runDir := s.Dir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}

	s.logger.Info("run saved",
		zap.String("id", meta.ID),
		zap.Int("steps", meta.Steps),
		zap.String("dir", runDir))
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sim.Columns()); err != nil {
		return err
	}

	for i := 0; i < result.StepsTaken; i++ {
		vals := result.Sample(i).Row()
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every run, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping run directory", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// StatesPath is the CSV file of a run.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.Dir(runID), statesFile)
}

// Series is a loaded states.csv: named columns over recorded steps.
type Series struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of one named column.
func (ser *Series) Column(name string) ([]float64, bool) {
	idx := -1
	for i, c := range ser.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	out := make([]float64, len(ser.Rows))
	for i, row := range ser.Rows {
		out[i] = row[idx]
	}
	return out, true
}

func (ser *Series) Len() int { return len(ser.Rows) }

// LoadSeries reads states.csv of a run. Rows that do not parse are skipped.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return &Series{}, nil
	}

	ser := &Series{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
rows:
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue rows
			}
			row[j] = v
		}
		ser.Rows = append(ser.Rows, row)
	}
	return ser, nil
}
