package model

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/hfserve/internal/config"
)

func predictorHost(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestPredictorClient_URLs(t *testing.T) {
	v1 := newPredictorClient("bert", config.PredictorConfig{Host: "predictor:8080"})
	assert.Equal(t, "http://predictor:8080/v1/models/bert:predict", v1.inferURL())
	assert.Equal(t, "http://predictor:8080/v1/models/bert", v1.healthURL())

	v2 := newPredictorClient("bert", config.PredictorConfig{
		Host:     "predictor:8080",
		Protocol: config.ProtocolV2,
		UseTLS:   true,
	})
	assert.Equal(t, "https://predictor:8080/v2/models/bert/infer", v2.inferURL())
	assert.Equal(t, "https://predictor:8080/v2/health/ready", v2.healthURL())
}

func TestPredictorClient_Infer(t *testing.T) {
	var gotPath, gotContentType, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{"predictions": [[0.1, 0.9]]}`))
	}))
	defer srv.Close()

	p := newPredictorClient("bert", config.PredictorConfig{Host: predictorHost(srv)})

	out, requestID, err := p.Infer(context.Background(), map[string]any{"instances": []string{"hello"}})
	require.NoError(t, err)

	assert.Equal(t, "/v1/models/bert:predict", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, gotRequestID, requestID)
	assert.Contains(t, out, "predictions")
}

func TestPredictorClient_InferErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newPredictorClient("bert", config.PredictorConfig{Host: predictorHost(srv)})

	_, _, err := p.Infer(context.Background(), map[string]any{"instances": []string{"hello"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "503")
	assert.ErrorContains(t, err, "model overloaded")
}

func TestPredictorClient_Healthy(t *testing.T) {
	var gotPath string
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(status)
	}))
	defer srv.Close()

	p := newPredictorClient("bert", config.PredictorConfig{
		Host:     predictorHost(srv),
		Protocol: config.ProtocolV2,
	})

	require.NoError(t, p.Healthy(context.Background()))
	assert.Equal(t, "/v2/health/ready", gotPath)

	status = http.StatusServiceUnavailable
	assert.ErrorContains(t, p.Healthy(context.Background()), "not ready")
}
