package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can use values like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// EngineOptions is the opaque option mapping handed to an engine constructor.
// The core does not interpret option semantics.
type EngineOptions map[string]interface{}

// String returns a string option or the fallback.
func (o EngineOptions) String(key, fallback string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// Float returns a float option or the fallback. Integer values are widened.
func (o EngineOptions) Float(key string, fallback float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Int returns an integer option or the fallback.
func (o EngineOptions) Int(key string, fallback int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Bool returns a boolean option or the fallback.
func (o EngineOptions) Bool(key string, fallback bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return fallback
}

// EvaluationConfig controls scoring behavior.
type EvaluationConfig struct {
	CaseSensitive     bool    `yaml:"case_sensitive" json:"case_sensitive"`
	AccuracyThreshold float64 `yaml:"accuracy_threshold" json:"accuracy_threshold"`
	// AnnotationPolicy selects how lines with multiple annotations are
	// handled: "first" or "all".
	AnnotationPolicy string `yaml:"annotation_policy" json:"annotation_policy"`
	// SkipDifficult drops records flagged difficult before scoring.
	SkipDifficult bool `yaml:"skip_difficult" json:"skip_difficult"`
}

// RunnerConfig bounds per-engine evaluation runs.
type RunnerConfig struct {
	Workers     int      `yaml:"workers" json:"workers"`
	CallTimeout Duration `yaml:"call_timeout" json:"call_timeout"`
	// EngineParallelism bounds how many engines a comparison evaluates at
	// once. Conservative default: local engines often share one GPU.
	EngineParallelism int `yaml:"engine_parallelism" json:"engine_parallelism"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

type OutputConfig struct {
	ReportsDir   string `yaml:"reports_dir" json:"reports_dir"`
	ResultsDir   string `yaml:"results_dir" json:"results_dir"`
	ReportFormat string `yaml:"report_format" json:"report_format"`
}

// ServerConfig configures the report-serving HTTP API.
type ServerConfig struct {
	Host           string   `yaml:"host" json:"host"`
	Port           string   `yaml:"port" json:"port"`
	RequestTimeout Duration `yaml:"request_timeout" json:"request_timeout"`
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// Config is the full benchmark configuration. A value is passed explicitly
// into each component constructor; there is no process-wide mutable state.
type Config struct {
	Engines    map[string]EngineOptions `yaml:"engines" json:"engines"`
	Evaluation EvaluationConfig         `yaml:"evaluation" json:"evaluation"`
	Runner     RunnerConfig             `yaml:"runner" json:"runner"`
	Logging    LoggingConfig            `yaml:"logging" json:"logging"`
	Output     OutputConfig             `yaml:"output" json:"output"`
	Server     ServerConfig             `yaml:"server" json:"server"`
}

// Default returns the built-in configuration, mirrored by `config generate`.
func Default() *Config {
	return &Config{
		Engines: map[string]EngineOptions{
			"tesseract": {
				"language":  "eng",
				"page_mode": "single_line",
			},
			"vlm": {
				"model":       "qwen/qwen2.5-vl-7b",
				"base_url":    "http://localhost:1234/v1",
				"temperature": 0.1,
				"max_tokens":  50,
			},
		},
		Evaluation: EvaluationConfig{
			CaseSensitive:     true,
			AccuracyThreshold: 0.95,
			AnnotationPolicy:  "first",
			SkipDifficult:     false,
		},
		Runner: RunnerConfig{
			Workers:           4,
			CallTimeout:       Duration(30 * time.Second),
			EngineParallelism: 1,
		},
		Logging: LoggingConfig{Level: "info"},
		Output: OutputConfig{
			ReportsDir:   "data/reports",
			ResultsDir:   "data/outputs",
			ReportFormat: "all",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           "8080",
			RequestTimeout: Duration(30 * time.Second),
		},
	}
}

// Load returns the defaults overlaid with an optional config file and
// environment overrides. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case ".json":
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
		}
	}

	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() {
	c.Logging.Level = getEnvOrDefault("OCR_BENCHMARK_LOG_LEVEL", c.Logging.Level)
	c.Output.ReportsDir = getEnvOrDefault("OCR_BENCHMARK_OUTPUT_DIR", c.Output.ReportsDir)
	c.Runner.Workers = parseIntOrDefault("OCR_BENCHMARK_WORKERS", c.Runner.Workers)
	c.Runner.CallTimeout = parseDurationOrDefault("OCR_BENCHMARK_CALL_TIMEOUT", c.Runner.CallTimeout)
}

// Validate checks structural invariants of the configuration.
func (c *Config) Validate() error {
	if c.Runner.Workers <= 0 {
		return fmt.Errorf("runner.workers must be > 0 (got %d)", c.Runner.Workers)
	}
	if c.Runner.CallTimeout <= 0 {
		return fmt.Errorf("runner.call_timeout must be > 0 (got %s)", c.Runner.CallTimeout.Std())
	}
	if c.Runner.EngineParallelism <= 0 {
		return fmt.Errorf("runner.engine_parallelism must be > 0 (got %d)", c.Runner.EngineParallelism)
	}
	switch c.Evaluation.AnnotationPolicy {
	case "first", "all":
	default:
		return fmt.Errorf("evaluation.annotation_policy must be \"first\" or \"all\" (got %q)", c.Evaluation.AnnotationPolicy)
	}
	p, err := strconv.Atoi(strings.TrimSpace(c.Server.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid server.port: %q", c.Server.Port)
	}
	return nil
}

// Get resolves a dot-separated path like "engines.vlm.model" against the
// configuration. The boolean reports whether the key exists.
func (c *Config) Get(key string) (interface{}, bool) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, false
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, false
	}

	var current interface{} = tree
	for _, part := range strings.Split(key, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Save writes the configuration to path, choosing the encoding from the file
// extension (YAML or JSON).
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue Duration) Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return Duration(duration)
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}
