package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileviz.yaml")
	data := []byte(`
indicator:
  mode: lines
  dash: 0.5
storage:
  persist_interval: 2s
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IndicatorLines, cfg.Indicator.Mode)
	assert.Equal(t, float32(0.5), cfg.Indicator.Dash)
	assert.Equal(t, Default().Indicator.Gap, cfg.Indicator.Gap)
	assert.Equal(t, 2*time.Second, cfg.Storage.PersistInterval)
	assert.Equal(t, Default().Window, cfg.Window)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"syntax.yaml": "window: [",
		"mode.yaml":   "indicator:\n  mode: sparkles\n",
		"dash.yaml":   "indicator:\n  dash: 0\n",
		"tiny.yaml":   "indicator:\n  dash: 0.00001\n",
		"speed.yaml":  "indicator:\n  speed: .nan\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		cfg, err := Load(path)
		assert.Error(t, err, name)
		assert.Equal(t, Default(), cfg, name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tileviz.yaml")
	cfg := Default()
	cfg.Highlight.Hover = "#ff0000"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TILEVIZ_STORAGE_DIR": "/tmp/tv",
		"TILEVIZ_LOG_LEVEL":   "DEBUG",
		"TILEVIZ_INDICATOR":   "Lines",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "/tmp/tv", cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, IndicatorLines, cfg.Indicator.Mode)

	untouched := Default()
	untouched.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, Default(), untouched)
}

func TestShippedConfigMatchesDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateIndicator(t *testing.T) {
	nan, inf := float32(math.NaN()), float32(math.Inf(1))
	tests := []struct {
		dash, gap, speed float32
		ok               bool
	}{
		{0.2, 0.1, 0.25, true},
		{0.2, 0, 0.25, true},
		{0.001, 0.001, -1, true},
		{0, 0.1, 0.25, false},
		{0.00001, 0.1, 0.25, false},
		{0.2, 0.00001, 0.25, false},
		{0.2, -0.1, 0.25, false},
		{nan, 0.1, 0.25, false},
		{0.2, inf, 0.25, false},
		{0.2, 0.1, nan, false},
		{0.2, 0.1, inf, false},
	}
	for _, tt := range tests {
		err := ValidateIndicator(tt.dash, tt.gap, tt.speed)
		if tt.ok {
			assert.NoError(t, err, "%v %v %v", tt.dash, tt.gap, tt.speed)
		} else {
			assert.ErrorIs(t, err, ErrInvalidIndicator, "%v %v %v", tt.dash, tt.gap, tt.speed)
		}
	}
}
