package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/hub"
	"github.com/ekisa-team/hfserve/internal/task"
	"github.com/ekisa-team/hfserve/internal/xfs"
)

// EncoderModel serves non-generative tasks on the standard backend. It is
// a thin dispatcher: tokenization options are resolved locally while the
// tensor computation is delegated to a separate predictor process.
type EncoderModel struct {
	name     string
	path     string
	id       string
	revision string
	cacheDir string

	task task.Task
	meta *hub.Metadata
	opts TokenizerOptions

	tensorInputNames   []string
	returnTokenTypeIDs bool

	downloader Downloader
	predictor  *predictorClient

	ready bool
}

// NewEncoderModel constructs the encoder variant. No I/O happens here.
func NewEncoderModel(cfg *config.Config, t task.Task, meta *hub.Metadata, path string) *EncoderModel {
	return &EncoderModel{
		name:               cfg.Name(),
		path:               path,
		id:                 cfg.ModelID,
		revision:           cfg.ModelRevision,
		cacheDir:           cfg.CacheDir,
		task:               t,
		meta:               meta,
		opts:               tokenizerOptionsFromConfig(cfg),
		tensorInputNames:   cfg.TensorInputNames,
		returnTokenTypeIDs: cfg.ReturnTokenTypeIDs,
		downloader:         hub.NewDownloader(),
		predictor:          newPredictorClient(cfg.Name(), cfg.Predictor),
	}
}

// Name returns the served model name.
func (m *EncoderModel) Name() string { return m.name }

// Task returns the bound task.
func (m *EncoderModel) Task() task.Task { return m.task }

// Backend returns the standard backend choice.
func (m *EncoderModel) Backend() backend.Choice { return backend.Standard }

// PredictorInferURL exposes the delegation endpoint, mostly for logs.
func (m *EncoderModel) PredictorInferURL() string { return m.predictor.inferURL() }

// Load materializes the model artifacts and verifies them. The predictor
// is probed once; an unready predictor is logged but not fatal, it may
// come up after this process.
func (m *EncoderModel) Load(ctx context.Context) error {
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

	if err := m.predictor.Healthy(ctx); err != nil {
		slog.Warn("Predictor is not ready yet", "model", m.name, "error", err)
	}

	m.ready = true
	slog.Info("Encoder model loaded", "model", m.name, "task", m.task, "predictor", m.predictor.inferURL())
	return nil
}

// Ready reports whether Load completed.
func (m *EncoderModel) Ready() bool { return m.ready }

// Infer delegates the request payload to the predictor and returns its
// response verbatim.
func (m *EncoderModel) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if !m.ready {
		return nil, ErrNotLoaded
	}

	input, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, fmt.Errorf("model: failed to read input: %w", err)
	}

	result, requestID, err := m.predictor.Infer(ctx, m.buildPayload(string(input), req.Parameters))
	if err != nil {
		return nil, err
	}

	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("model: failed to encode predictor result: %w", err)
	}

	return &backend.Response{
		Output: bytes.NewReader(output),
		Metadata: &backend.ResponseMetadata{
			Backend:     backend.Standard.String(),
			Model:       m.name,
			RequestID:   requestID,
			Timestamp:   time.Now(),
			OutputBytes: int64(len(output)),
		},
	}, nil
}

// buildPayload shapes the request for the configured protocol.
func (m *EncoderModel) buildPayload(input string, params map[string]any) any {
	if m.predictor.protocol == config.ProtocolV2 {
		inputName := "input-0"
		if len(m.tensorInputNames) > 0 {
			inputName = m.tensorInputNames[0]
		}

		return map[string]any{
			"inputs": []map[string]any{{
				"name":     inputName,
				"shape":    []int{1},
				"datatype": "BYTES",
				"data":     []string{input},
			}},
		}
	}

	payload := map[string]any{"instances": []string{input}}
	if len(params) > 0 {
		payload["parameters"] = params
	}
	return payload
}

// Close is a no-op: the predictor connection pool needs no teardown.
func (m *EncoderModel) Close() error { return nil }
