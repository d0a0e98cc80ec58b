package hub

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultRetryDelay = 2 * time.Second
	defaultMaxRetries = 3
	defaultTimeout    = 10 * time.Minute
	markerFilename    = ".hfserve-downloaded"
)

// DownloadOptions select what to fetch from the hub.
type DownloadOptions struct {
	Repo     string
	Revision string
	Token    string
	Include  []string
	Exclude  []string
	Force    bool
}

// Downloader fetches model repositories from Hugging Face into a local
// cache directory using the hf CLI.
type Downloader struct{}

// NewDownloader creates a downloader.
func NewDownloader() *Downloader {
	return &Downloader{}
}

// Download fetches the repo into targetDir. The second return value is
// true when the repo was already cached and the download was skipped.
func (d *Downloader) Download(ctx context.Context, opts DownloadOptions, targetDir string) (string, bool, error) {
	repo := strings.TrimSpace(opts.Repo)
	if repo == "" {
		return "", false, fmt.Errorf("hub: invalid repo name: %q", opts.Repo)
	}

	fullPath := filepath.Join(targetDir, repo)
	markerPath := filepath.Join(fullPath, markerFilename)
	markerContent := d.markerContent(repo, opts.Revision)

	if _, err := os.Stat(markerPath); err == nil && !opts.Force {
		if !d.shouldRedownload(markerPath, markerContent) {
			slog.Info("Model already downloaded and up-to-date (marker match), skipping", "repo", repo, "path", fullPath)
			return fullPath, true, nil
		}
	}

	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		return "", false, fmt.Errorf("hub: failed to create directory: %w", err)
	}

	args := []string{
		"download",
		repo,
		"--local-dir", fullPath,
	}

	if opts.Revision != "" {
		args = append(args, "--revision", opts.Revision)
	}
	for _, inc := range opts.Include {
		args = append(args, "--include", inc)
	}
	for _, exc := range opts.Exclude {
		args = append(args, "--exclude", exc)
	}
	if opts.Force {
		args = append(args, "--force-download")
	}
	if opts.Token != "" {
		args = append(args, "--token", opts.Token)
	}

	var lastErr error
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if attempt > 0 {
			slog.Info("Retrying download", "repo", repo, "attempt", attempt+1, "last_error", lastErr)
			time.Sleep(defaultRetryDelay)
		} else {
			slog.Info("Downloading model", "repo", repo, "path", fullPath)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		cmd := exec.CommandContext(attemptCtx, "hf", args...)
		output, err := cmd.CombinedOutput()
		cancel()

		if err == nil {
			if err := os.WriteFile(markerPath, []byte(markerContent), 0o644); err != nil {
				slog.Warn("Failed to write download marker", "path", markerPath, "error", err)
			}

			slog.Info("Model downloaded successfully", "repo", repo, "path", fullPath, "attempt", attempt+1)
			return fullPath, false, nil
		}

		lastErr = err
		slog.Error("Failed to download model", "repo", repo, "path", fullPath, "attempt", attempt+1, "error", err, "output", string(output))

		if attemptCtx.Err() == context.DeadlineExceeded {
			slog.Warn("Download timed out", "repo", repo, "attempt", attempt+1)
		} else if ctx.Err() == context.Canceled {
			return "", false, fmt.Errorf("hub: download canceled: %w", err)
		}
	}

	return "", false, lastErr
}

// markerContent generates the expected content of the marker file.
// Used to detect if a redownload is needed after a config change.
func (d *Downloader) markerContent(repo, revision string) string {
	return fmt.Sprintf("repo: %s\nrevision: %s\n", repo, revision)
}

// shouldRedownload compares the marker content against the expected one.
func (d *Downloader) shouldRedownload(markerPath, expectedContent string) bool {
	content, err := os.ReadFile(markerPath)
	if err != nil {
		slog.Debug("Marker file missing or unreadable", "path", markerPath, "error", err)
		return true
	}

	if string(content) != expectedContent {
		slog.Info("Model config changed (marker mismatch), will redownload",
			"marker_path", markerPath,
			"expected_snippet", expectedContent,
			"actual_snippet", string(content))
		return true
	}

	return false
}
