package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/hub"
	"github.com/ekisa-team/hfserve/internal/task"
	"github.com/ekisa-team/hfserve/internal/xfs"
)

// runtimeCallTimeout bounds a single generation call on the subprocess
// runtime.
const runtimeCallTimeout = 5 * time.Minute

// GenerativeModel serves generative tasks on the standard backend through
// a subprocess runtime invoked per request.
type GenerativeModel struct {
	name     string
	path     string
	id       string
	revision string
	cacheDir string

	task task.Task
	meta *hub.Metadata
	opts TokenizerOptions

	runtimeBin string
	downloader Downloader
	executor   *backend.Executor

	ready bool
}

// NewGenerativeModel constructs the standard generative variant. No I/O
// happens here.
func NewGenerativeModel(cfg *config.Config, t task.Task, meta *hub.Metadata, path string) *GenerativeModel {
	return &GenerativeModel{
		name:       cfg.Name(),
		path:       path,
		id:         cfg.ModelID,
		revision:   cfg.ModelRevision,
		cacheDir:   cfg.CacheDir,
		task:       t,
		meta:       meta,
		opts:       tokenizerOptionsFromConfig(cfg),
		runtimeBin: cfg.RuntimeBin,
		downloader: hub.NewDownloader(),
	}
}

// Name returns the served model name.
func (m *GenerativeModel) Name() string { return m.name }

// Task returns the bound task.
func (m *GenerativeModel) Task() task.Task { return m.task }

// Backend returns the standard backend choice.
func (m *GenerativeModel) Backend() backend.Choice { return backend.Standard }

// Load materializes the model artifacts and prepares the runtime
// executor.
func (m *GenerativeModel) Load(ctx context.Context) error {
	if m.path == "" {
		cacheDir := m.cacheDir
		if cacheDir == "" {
			cacheDir = config.DefaultCacheDir()
		}

		path, _, err := m.downloader.Download(ctx, hub.DownloadOptions{
			Repo:     m.id,
			Revision: m.revision,
		}, cacheDir)
		if err != nil {
			return fmt.Errorf("model: failed to download %s: %w", m.id, err)
		}
		m.path = path
	}

	if !xfs.FileExists(filepath.Join(m.path, hub.MetadataFilename)) {
		return fmt.Errorf("model: %s does not look like a model directory, missing %s", m.path, hub.MetadataFilename)
	}

	bin := m.runtimeBin
	if bin == "" {
		bin = config.DefaultRuntimeBin
	}
	if filepath.Base(bin) == bin {
		resolved, err := exec.LookPath(bin)
		if err != nil {
			return fmt.Errorf("model: runtime binary %q not found on PATH: %w", bin, err)
		}
		bin = resolved
	}

	executor, err := backend.NewExecutor(bin, runtimeCallTimeout)
	if err != nil {
		return err
	}
	m.executor = executor

	m.ready = true
	slog.Info("Generative model loaded", "model", m.name, "task", m.task, "runtime", bin)
	return nil
}

// Ready reports whether Load completed.
func (m *GenerativeModel) Ready() bool { return m.ready }

// Infer runs one generation through the runtime.
func (m *GenerativeModel) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	args, err := m.buildArgs(req)
	if err != nil {
		return nil, err
	}

	stdout, stderr, err := m.executor.Execute(ctx, args, nil)
	if err != nil {
		return nil, fmt.Errorf("model: generation failed: %w\nstderr: %s", err, stderr)
	}

	text := strings.TrimSpace(string(stdout))

	return &backend.Response{
		Output: bytes.NewReader([]byte(text)),
		Metadata: &backend.ResponseMetadata{
			Backend:     backend.Standard.String(),
			Model:       m.name,
			Timestamp:   time.Now(),
			OutputBytes: int64(len(text)),
		},
	}, nil
}

// InferStream streams generated tokens line by line.
func (m *GenerativeModel) InferStream(ctx context.Context, req *backend.Request) (<-chan backend.StreamChunk, error) {
	args, err := m.buildArgs(req)
	if err != nil {
		return nil, err
	}

	return m.executor.Stream(ctx, args, nil)
}

// buildArgs renders the runtime command line from the tokenizer options
// and per-request parameters.
func (m *GenerativeModel) buildArgs(req *backend.Request) ([]string, error) {
	if !m.ready {
		return nil, ErrNotLoaded
	}

	args := []string{"--model", m.path}

	if m.opts.MaxLength > 0 {
		args = append(args, "--ctx-size", fmt.Sprintf("%d", m.opts.MaxLength))
	}

	p := req.Parameters
	if p == nil {
		p = make(map[string]any)
	}

	if v, ok := p["n_predict"].(int); ok {
		args = append(args, "-n", fmt.Sprintf("%d", v))
	} else {
		args = append(args, "-n", "512")
	}
	if v, ok := p["temperature"].(float64); ok {
		args = append(args, "--temp", fmt.Sprintf("%.2f", v))
	}
	if v, ok := p["top_p"].(float64); ok {
		args = append(args, "--top-p", fmt.Sprintf("%.2f", v))
	}
	if v, ok := p["top_k"].(int); ok {
		args = append(args, "--top-k", fmt.Sprintf("%d", v))
	}

	args = append(args, "--no-warmup", "--no-display-prompt", "--simple-io")

	prompt, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, fmt.Errorf("model: failed to read input: %w", err)
	}

	return append(args, "--prompt", string(prompt)), nil
}

// Close releases the runtime executor. Nothing persists between calls.
func (m *GenerativeModel) Close() error {
	m.ready = false
	return nil
}
