package model

import (
	"context"
	"log/slog"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/backend/vllm"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/hub"
	"github.com/ekisa-team/hfserve/internal/task"
	"github.com/ekisa-team/hfserve/internal/xfs"
)

// Downloader fetches a hub repository into a local cache directory.
type Downloader interface {
	Download(ctx context.Context, opts hub.DownloadOptions, targetDir string) (string, bool, error)
}

// Inspector retrieves architecture metadata for a model reference.
type Inspector interface {
	Inspect(dir string) (*hub.Metadata, error)
	Fetch(ctx context.Context, id, revision string) (*hub.Metadata, error)
}

// Resolver runs the startup pipeline once: validate the configuration,
// locate the model, inspect its architecture, resolve task and backend,
// and construct the runtime model. It runs single-threaded before any
// serving concurrency begins.
type Resolver struct {
	cfg             *config.Config
	inspector       Inspector
	engineAvailable func() bool
}

// ResolverOption overrides a Resolver collaborator.
type ResolverOption func(*Resolver)

// WithInspector replaces the metadata inspector.
func WithInspector(i Inspector) ResolverOption {
	return func(r *Resolver) { r.inspector = i }
}

// WithEngineProbe replaces the engine availability capability.
func WithEngineProbe(probe func() bool) ResolverOption {
	return func(r *Resolver) { r.engineAvailable = probe }
}

// NewResolver creates a resolver for the given configuration.
func NewResolver(cfg *config.Config, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cfg:             cfg,
		inspector:       hub.NewClient(),
		engineAvailable: vllm.Available,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces exactly one fully configured runtime model, or a
// terminal configuration error. Validation runs before any metadata
// retrieval is attempted.
func (r *Resolver) Resolve(ctx context.Context) (Model, error) {
	cfg := r.cfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backendName := cfg.Backend
	if backendName == "" {
		backendName = backend.Auto.String()
	}
	requested, err := backend.Parse(backendName)
	if err != nil {
		return nil, err
	}

	// A local directory wins over a hub id; hub-id models are
	// materialized lazily by Load, so only the metadata file is
	// retrieved here.
	var path string
	var meta *hub.Metadata
	if cfg.ModelDir != "" {
		path = xfs.ExpandTilde(cfg.ModelDir)
		meta, err = r.inspector.Inspect(path)
	} else {
		meta, err = r.inspector.Fetch(ctx, cfg.ModelID, cfg.ModelRevision)
	}
	if err != nil {
		return nil, err
	}

	engineOK := r.engineAvailable()

	choice, err := backend.Select(requested, meta, engineOK)
	if err != nil {
		return nil, err
	}

	resolved, err := task.Resolve(cfg.Task, meta)
	if err != nil {
		return nil, err
	}

	m, err := Create(resolved, choice, cfg, meta, path)
	if err != nil {
		return nil, err
	}

	slog.Info("Resolved model",
		"model", m.Name(),
		"task", m.Task().String(),
		"backend", m.Backend().String(),
		"architectures", meta.Architectures,
		"engine_available", engineOK,
	)

	return m, nil
}
