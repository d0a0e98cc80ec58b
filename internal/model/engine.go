package model

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/backend/vllm"
	"github.com/ekisa-team/hfserve/internal/task"
)

// EngineModel serves generative tasks through a supervised vLLM server.
// The engine handles batching and scheduling; this model only proxies
// requests to it.
type EngineModel struct {
	name   string
	task   task.Task
	args   *vllm.Args
	server *vllm.Server
	client *http.Client
}

// NewEngineModel constructs the engine variant from built engine args.
// The engine process is not started until Load.
func NewEngineModel(name string, t task.Task, args *vllm.Args) *EngineModel {
	return &EngineModel{
		name:   name,
		task:   t,
		args:   args,
		server: vllm.NewServer(args),
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Name returns the served model name.
func (m *EngineModel) Name() string { return m.name }

// Task returns the bound task.
func (m *EngineModel) Task() task.Task { return m.task }

// Backend returns the vLLM backend choice.
func (m *EngineModel) Backend() backend.Choice { return backend.VLLM }

// Args exposes the engine construction parameters.
func (m *EngineModel) Args() *vllm.Args { return m.args }

// Load starts the engine server and waits for it to become healthy.
func (m *EngineModel) Load(ctx context.Context) error {
	if err := m.server.Start(ctx, vllm.DefaultReadyTimeout); err != nil {
		return fmt.Errorf("model: failed to load engine model %s: %w", m.name, err)
	}
	return nil
}

// Ready reports whether the engine passed its health check.
func (m *EngineModel) Ready() bool { return m.server.Ready() }

// Infer proxies one completion request to the engine.
func (m *EngineModel) Infer(ctx context.Context, req *backend.Request) (*backend.Response, error) {
	if !m.server.Ready() {
		return nil, ErrNotLoaded
	}

	prompt, err := io.ReadAll(req.Input)
	if err != nil {
		return nil, fmt.Errorf("model: failed to read input: %w", err)
	}

	payload := map[string]any{
		"model":  m.args.ServedModelName,
		"prompt": string(prompt),
	}
	if v, ok := req.Parameters["n_predict"].(int); ok {
		payload["max_tokens"] = v
	}
	if v, ok := req.Parameters["temperature"].(float64); ok {
		payload["temperature"] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("model: failed to encode engine request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.server.BaseURL()+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("model: failed to create engine request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("model: engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("model: engine returned %s: %s", resp.Status, snippet)
	}

	var completion struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("model: invalid engine response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("model: engine returned no choices")
	}

	text := completion.Choices[0].Text

	return &backend.Response{
		Output: bytes.NewReader([]byte(text)),
		Metadata: &backend.ResponseMetadata{
			Backend:     backend.VLLM.String(),
			Model:       m.name,
			RequestID:   requestID,
			Timestamp:   time.Now(),
			OutputBytes: int64(len(text)),
		},
	}, nil
}

// Close stops the engine process.
func (m *EngineModel) Close() error {
	return m.server.Stop()
}
