package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Runner.Workers)
	assert.Equal(t, 30*time.Second, cfg.Runner.CallTimeout.Std())
	assert.Equal(t, "first", cfg.Evaluation.AnnotationPolicy)
	assert.Contains(t, cfg.Engines, "tesseract")
	assert.Contains(t, cfg.Engines, "vlm")
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
runner:
  workers: 8
  call_timeout: 10s
  engine_parallelism: 2
engines:
  vlm:
    model: llava-1.6
    base_url: http://gpu-box:1234/v1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Runner.Workers)
	assert.Equal(t, 10*time.Second, cfg.Runner.CallTimeout.Std())
	// Untouched sections keep their defaults.
	assert.Equal(t, "data/reports", cfg.Output.ReportsDir)
	assert.True(t, cfg.Evaluation.CaseSensitive)

	assert.Equal(t, "llava-1.6", cfg.Engines["vlm"].String("model", ""))
	assert.Equal(t, "http://gpu-box:1234/v1", cfg.Engines["vlm"].String("base_url", ""))
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"runner": {"workers": 2, "call_timeout": "5s", "engine_parallelism": 1}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Runner.Workers)
	assert.Equal(t, 5*time.Second, cfg.Runner.CallTimeout.Std())
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero workers", "runner:\n  workers: 0\n"},
		{"bad policy", "evaluation:\n  annotation_policy: last\n"},
		{"bad port", "server:\n  port: \"not-a-port\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestGetDotPath(t *testing.T) {
	cfg := Default()

	v, ok := cfg.Get("evaluation.annotation_policy")
	require.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = cfg.Get("engines.vlm.model")
	require.True(t, ok)
	assert.Equal(t, "qwen/qwen2.5-vl-7b", v)

	_, ok = cfg.Get("engines.vlm.nonexistent")
	assert.False(t, ok)

	_, ok = cfg.Get("no.such.path")
	assert.False(t, ok)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generated.yaml")

	cfg := Default()
	cfg.Runner.Workers = 16
	require.NoError(t, cfg.Save(path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Runner.Workers)
	assert.Equal(t, cfg.Evaluation, reloaded.Evaluation)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OCR_BENCHMARK_WORKERS", "12")
	t.Setenv("OCR_BENCHMARK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Runner.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEngineOptionAccessors(t *testing.T) {
	opts := EngineOptions{
		"language":    "eng",
		"temperature": 0.1,
		"max_tokens":  50,
		"verbose":     true,
	}

	assert.Equal(t, "eng", opts.String("language", "deu"))
	assert.Equal(t, "deu", opts.String("missing", "deu"))
	assert.InDelta(t, 0.1, opts.Float("temperature", 0.7), 1e-9)
	assert.Equal(t, 50, opts.Int("max_tokens", 10))
	assert.True(t, opts.Bool("verbose", false))
	assert.False(t, opts.Bool("missing", false))
}
