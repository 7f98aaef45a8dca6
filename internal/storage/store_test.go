package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/sim"
)

func runResult(t *testing.T, duration float64) *sim.Result {
	t.Helper()
	s := sim.New(kite.NewModel(nil, nil), nil, nil)
	result, err := s.Run(context.Background(), kite.DefaultState(), kite.DefaultInput(), sim.Config{Dt: 0.05, Duration: duration})
	require.NoError(t, err)
	result.Metrics["mean_traction"] = 1.5
	return result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir(), nil)
	require.NoError(t, st.Init())

	result := runResult(t, 0.5)
	runID, err := st.Save(RunMetadata{Preset: "calm", Seed: 42, Dt: 0.05, Duration: 0.5, Controller: "hold"}, result)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(runID, "calm_"))
	assert.Len(t, runID, len("calm_")+8)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "calm", meta.Preset)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 10, meta.Steps)
	assert.Equal(t, 1.5, meta.Metrics["mean_traction"])
	assert.Equal(t, result.States[10], meta.FinalState)

	ser, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, sim.Columns(), ser.Columns)
	assert.Equal(t, 10, ser.Len())

	theta, ok := ser.Column("theta")
	require.True(t, ok)
	want, _ := result.Column("theta")
	assert.Equal(t, want, theta)

	traction, ok := ser.Column("traction")
	require.True(t, ok)
	assert.Equal(t, result.Outputs[3].Traction, traction[3])

	_, ok = ser.Column("nope")
	assert.False(t, ok)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Preset: "default"}, runResult(t, 0.1))
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{Preset: "gusty"}, runResult(t, 0.1))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"), nil)
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir, nil)
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{Preset: "default"}, runResult(t, 0.1))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, runID, "states.csv"))
}

func TestExport(t *testing.T) {
	st := New(t.TempDir(), nil)
	require.NoError(t, st.Init())
	runID, err := st.Save(RunMetadata{Preset: "default"}, runResult(t, 0.2))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, runID, data.Run.ID)
	assert.Len(t, data.Rows, 4)
	assert.Equal(t, sim.Columns(), data.Columns)

	buf.Reset()
	require.NoError(t, st.ExportCSV(&buf, runID))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "time,theta,phi"))
}
