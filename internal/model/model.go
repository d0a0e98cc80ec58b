package model

import (
	"context"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/task"
)

// Model is a constructed, not-yet-loaded runtime model bound to exactly
// one task and one backend. Construction never touches the network or the
// filesystem; Load owns all artifact and connection I/O. The serving layer
// drives Load and then Ready.
type Model interface {
	// Name returns the served model name.
	Name() string

	// Task returns the prediction kind the model is bound to.
	Task() task.Task

	// Backend returns the concrete backend executing inference.
	Backend() backend.Choice

	// Load prepares the model for serving.
	Load(ctx context.Context) error

	// Ready reports whether the model can serve requests.
	Ready() bool

	// Infer executes or delegates one prediction.
	Infer(ctx context.Context, req *backend.Request) (*backend.Response, error)

	// Close releases runtime resources.
	Close() error
}

// TokenizerOptions are the casing/length flags the runtime applies when it
// loads its tokenizer.
type TokenizerOptions struct {
	Revision         string
	DoLowerCase      bool
	AddSpecialTokens bool
	MaxLength        int
	TrustRemoteCode  bool
}

// tokenizerOptionsFromConfig translates the disable-style CLI flags into
// the positive options the runtimes consume. The tokenizer revision falls
// back to the model revision.
func tokenizerOptionsFromConfig(cfg *config.Config) TokenizerOptions {
	revision := cfg.TokenizerRevision
	if revision == "" {
		revision = cfg.ModelRevision
	}

	return TokenizerOptions{
		Revision:         revision,
		DoLowerCase:      !cfg.DisableLowerCase,
		AddSpecialTokens: !cfg.DisableSpecialTokens,
		MaxLength:        cfg.MaxLength,
		TrustRemoteCode:  cfg.TrustRemoteCode,
	}
}
