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

	"github.com/ekisa-team/hfserve/internal/config"
)

// predictorClient delegates tensor computation to a separate predictor
// process over the v1 or v2 REST inference protocol.
type predictorClient struct {
	modelName string
	host      string
	protocol  string
	scheme    string
	client    *http.Client
}

// newPredictorClient builds the delegation client from the predictor
// endpoint configuration. No connection is made here.
func newPredictorClient(modelName string, cfg config.PredictorConfig) *predictorClient {
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = config.ProtocolV1
	}

	scheme := "http"
	if cfg.UseTLS {
		scheme = "https"
	}

	timeout := cfg.TimeoutSeconds
	if timeout == 0 {
		timeout = config.DefaultPredictorTimeoutSeconds
	}

	return &predictorClient{
		modelName: modelName,
		host:      cfg.Host,
		protocol:  protocol,
		scheme:    scheme,
		client:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// inferURL returns the protocol-specific inference endpoint.
func (p *predictorClient) inferURL() string {
	if p.protocol == config.ProtocolV2 {
		return fmt.Sprintf("%s://%s/v2/models/%s/infer", p.scheme, p.host, p.modelName)
	}
	return fmt.Sprintf("%s://%s/v1/models/%s:predict", p.scheme, p.host, p.modelName)
}

// healthURL returns the protocol-specific readiness endpoint.
func (p *predictorClient) healthURL() string {
	if p.protocol == config.ProtocolV2 {
		return fmt.Sprintf("%s://%s/v2/health/ready", p.scheme, p.host)
	}
	return fmt.Sprintf("%s://%s/v1/models/%s", p.scheme, p.host, p.modelName)
}

// Infer posts the payload to the predictor and returns the decoded
// response together with the request id used.
func (p *predictorClient) Infer(ctx context.Context, payload any) (map[string]any, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("model: failed to encode predictor payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.inferURL(), bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("model: failed to create predictor request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, requestID, fmt.Errorf("model: predictor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, requestID, fmt.Errorf("model: predictor returned %s: %s", resp.Status, snippet)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, requestID, fmt.Errorf("model: invalid predictor response: %w", err)
	}

	return out, requestID, nil
}

// Healthy checks the predictor readiness endpoint.
func (p *predictorClient) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.healthURL(), http.NoBody)
	if err != nil {
		return fmt.Errorf("model: failed to create health request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("model: predictor health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model: predictor not ready: %s", resp.Status)
	}

	return nil
}
