package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, `
model_id: google-bert/bert-base-uncased
task: sequence_classification
backend: standard
max_length: 512
predictor:
  host: predictor.default.svc:8080
  protocol: v1
  timeout_seconds: 30
engine:
  port: 8000
  extra_args: ["--gpu-memory-utilization", "0.9"]
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, "google-bert/bert-base-uncased", cfg.ModelID)
	assert.Equal(t, "sequence_classification", cfg.Task)
	assert.Equal(t, "standard", cfg.Backend)
	assert.Equal(t, 512, cfg.MaxLength)
	assert.Equal(t, "predictor.default.svc:8080", cfg.Predictor.Host)
	assert.Equal(t, 30, cfg.Predictor.TimeoutSeconds)
	assert.Equal(t, []string{"--gpu-memory-utilization", "0.9"}, cfg.Engine.ExtraArgs)
}

func TestLoadAndValidate_SchemaViolations(t *testing.T) {
	// Unknown backend name is rejected by the schema enum.
	path := writeConfigFile(t, "model_id: m\nbackend: gpu\n")
	_, err := LoadAndValidate(path)
	assert.ErrorContains(t, err, "validation failed")

	// Unknown top-level keys are rejected.
	path = writeConfigFile(t, "model_id: m\nmodel_path: /tmp\n")
	_, err = LoadAndValidate(path)
	assert.ErrorContains(t, err, "validation failed")

	// max_length must be positive.
	path = writeConfigFile(t, "model_id: m\nmax_length: 0\n")
	_, err = LoadAndValidate(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadAndValidate_BadInput(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	path := writeConfigFile(t, "model_id: [unclosed\n")
	_, err = LoadAndValidate(path)
	assert.ErrorContains(t, err, "invalid YAML")
}
