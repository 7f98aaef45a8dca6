package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kitesim/internal/params"
)

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"TWS=12", " kiteArea = 9.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"TWS": 12, "kiteArea": 9.5}, got)

	_, err = parseSets([]string{"TWS"})
	assert.Error(t, err)
	_, err = parseSets([]string{"TWS=fast"})
	assert.Error(t, err)
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("5, 10,,15")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 10, 15}, got)

	_, err = parseFloats("5,x")
	assert.Error(t, err)
}

func TestLoadConfigLayers(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		sets = nil
	})

	viper.Set("preset", "calm")
	viper.Set("theta", 30.0)
	sets = []string{params.TrueWindSpeed + "=9"}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "calm", cfg.Preset)
	assert.Equal(t, 30.0, cfg.InitState.ThetaDeg)
	assert.Equal(t, 9.0, cfg.Disturbance.TWS)
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("preset", "hurricane")
	_, err := loadConfig()
	assert.ErrorContains(t, err, "unknown preset")
}
