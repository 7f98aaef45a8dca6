package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the JSON form of a saved run.
type ExportData struct {
	Run     RunMetadata `json:"run"`
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// ExportJSON writes metadata and series of runID to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	ser, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Columns: ser.Columns, Rows: ser.Rows})
}

// ExportCSV copies the states.csv of runID to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
