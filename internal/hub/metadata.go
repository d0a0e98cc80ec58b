package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/ekisa-team/hfserve/internal/envvar"
)

// MetadataFilename is the file carrying a repo's architecture metadata.
const MetadataFilename = "config.json"

// DefaultBaseURL is the Hugging Face hub endpoint.
const DefaultBaseURL = "https://huggingface.co"

// Metadata describes a model's declared architecture, as read from the
// repo's config.json. It is retrieved once at startup and read-only
// afterwards.
type Metadata struct {
	Architectures []string `json:"architectures"`
	ModelType     string   `json:"model_type"`

	// Revision is the hub revision the metadata was fetched at; empty for
	// local directories.
	Revision string `json:"-"`
}

// Client retrieves architecture metadata from a local directory or from
// the hub without downloading the full repository.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient creates a hub client with the default endpoint. The access
// token is taken from HF_TOKEN.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Token:      os.Getenv(envvar.HfToken),
	}
}

// Inspect reads architecture metadata from a local model directory.
func (c *Client) Inspect(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFilename))
	if err != nil {
		return nil, fmt.Errorf("hub: failed to read model metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("hub: invalid model metadata in %s: %w", dir, err)
	}

	return &meta, nil
}

// Fetch retrieves architecture metadata for a hub model id. Only the
// config.json file is requested; the repository itself is not downloaded.
func (c *Client) Fetch(ctx context.Context, id, revision string) (*Metadata, error) {
	if revision == "" {
		revision = "main"
	}

	url := fmt.Sprintf("%s/%s/resolve/%s/%s", c.BaseURL, id, revision, MetadataFilename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("hub: failed to create metadata request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub: failed to fetch metadata for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hub: metadata request for %s returned %s: %s", id, resp.Status, body)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("hub: invalid model metadata for %s: %w", id, err)
	}
	meta.Revision = revision

	return &meta, nil
}
