package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Predictor protocol names accepted by the encoder delegation path.
const (
	ProtocolV1 = "v1"
	ProtocolV2 = "v2"
)

// Error definitions for the config package.
var (
	ErrMissingModelReference = errors.New("either a model dir or a model id must be provided")
)

// PredictorConfig points the encoder path at the predictor process that
// executes the actual tensor computation.
type PredictorConfig struct {
	Host           string `json:"host,omitempty"            yaml:"host,omitempty"`
	Protocol       string `json:"protocol,omitempty"        yaml:"protocol,omitempty"`
	UseTLS         bool   `json:"use_tls,omitempty"         yaml:"use_tls,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// EngineConfig carries tuning for the vLLM engine backend.
type EngineConfig struct {
	Port      int      `json:"port,omitempty"       yaml:"port,omitempty"`
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
}

// Config is the resolved configuration bundle handed to the startup
// pipeline. It is assembled once in main (config file plus flag overrides)
// and read-only afterwards.
type Config struct {
	// Exactly one of ModelDir (local artifact directory) or ModelID
	// (Hugging Face repo id) must be set.
	ModelDir string `json:"model_dir,omitempty" yaml:"model_dir,omitempty"`
	ModelID  string `json:"model_id,omitempty"  yaml:"model_id,omitempty"`

	// ModelName is the served model name; empty derives it from the
	// model reference.
	ModelName         string `json:"model_name,omitempty"         yaml:"model_name,omitempty"`
	ModelRevision     string `json:"model_revision,omitempty"     yaml:"model_revision,omitempty"`
	TokenizerRevision string `json:"tokenizer_revision,omitempty" yaml:"tokenizer_revision,omitempty"`

	// Task and Backend are the external string forms; they are parsed and
	// validated by the task and backend packages at resolution time.
	Task    string `json:"task,omitempty"    yaml:"task,omitempty"`
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Tokenizer and runtime tuning flags.
	MaxLength            int      `json:"max_length,omitempty"             yaml:"max_length,omitempty"`
	DisableLowerCase     bool     `json:"disable_lower_case,omitempty"     yaml:"disable_lower_case,omitempty"`
	DisableSpecialTokens bool     `json:"disable_special_tokens,omitempty" yaml:"disable_special_tokens,omitempty"`
	TrustRemoteCode      bool     `json:"trust_remote_code,omitempty"      yaml:"trust_remote_code,omitempty"`
	TensorInputNames     []string `json:"tensor_input_names,omitempty"     yaml:"tensor_input_names,omitempty"`
	ReturnTokenTypeIDs   bool     `json:"return_token_type_ids,omitempty"  yaml:"return_token_type_ids,omitempty"`

	// RuntimeBin is the subprocess runtime binary used by the standard
	// generative path.
	RuntimeBin string `json:"runtime_bin,omitempty" yaml:"runtime_bin,omitempty"`

	// CacheDir is where hub repos are downloaded; empty uses the
	// platform default.
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`

	Predictor PredictorConfig `json:"predictor,omitempty" yaml:"predictor,omitempty"`
	Engine    EngineConfig    `json:"engine,omitempty"    yaml:"engine,omitempty"`
}

// Validate checks the invariants that must hold before resolution starts.
// It runs before any metadata retrieval or download is attempted.
func (c *Config) Validate() error {
	if c.ModelDir == "" && c.ModelID == "" {
		return ErrMissingModelReference
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("max length must be a positive integer, got %d", c.MaxLength)
	}
	switch c.Predictor.Protocol {
	case "", ProtocolV1, ProtocolV2:
	default:
		return fmt.Errorf("unknown predictor protocol %q, supported protocols are: %s, %s",
			c.Predictor.Protocol, ProtocolV1, ProtocolV2)
	}
	if c.Predictor.TimeoutSeconds < 0 {
		return fmt.Errorf("predictor timeout must be a positive integer, got %d", c.Predictor.TimeoutSeconds)
	}
	return nil
}

// ModelRef returns the model reference: the local directory when set,
// the hub id otherwise.
func (c *Config) ModelRef() string {
	if c.ModelDir != "" {
		return c.ModelDir
	}
	return c.ModelID
}

// Name returns the served model name, derived from the model reference
// when not set explicitly.
func (c *Config) Name() string {
	if c.ModelName != "" {
		return c.ModelName
	}
	ref := strings.TrimRight(c.ModelRef(), "/")
	if ref == "" {
		return "model"
	}
	return path.Base(ref)
}
