package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, MetadataFilename),
		[]byte(`{"architectures": ["BertForSequenceClassification"], "model_type": "bert"}`),
		0o644,
	))

	meta, err := NewClient().Inspect(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"BertForSequenceClassification"}, meta.Architectures)
	assert.Equal(t, "bert", meta.ModelType)
}

func TestInspect_MissingOrInvalid(t *testing.T) {
	c := NewClient()

	_, err := c.Inspect(t.TempDir())
	assert.ErrorContains(t, err, "failed to read model metadata")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFilename), []byte("not json"), 0o644))
	_, err = c.Inspect(dir)
	assert.ErrorContains(t, err, "invalid model metadata")
}

func TestFetch(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"architectures": ["LlamaForCausalLM"], "model_type": "llama"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTPClient: srv.Client(), Token: "hf_test"}
	meta, err := c.Fetch(context.Background(), "meta-llama/Llama-3.1-8B", "")
	require.NoError(t, err)

	assert.Equal(t, "/meta-llama/Llama-3.1-8B/resolve/main/config.json", gotPath)
	assert.Equal(t, "Bearer hf_test", gotAuth)
	assert.Equal(t, []string{"LlamaForCausalLM"}, meta.Architectures)
	assert.Equal(t, "main", meta.Revision)
}

func TestFetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Entry not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := c.Fetch(context.Background(), "missing/model", "main")
	assert.ErrorContains(t, err, "404")
}
