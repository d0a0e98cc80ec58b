package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/ekisa-team/hfserve/internal/envvar"
)

// DefaultRuntimeBin is the subprocess runtime binary used by the standard
// generative path when none is configured.
const DefaultRuntimeBin = "llama-cli"

// DefaultPredictorTimeoutSeconds bounds encoder delegation requests when
// no timeout is configured.
const DefaultPredictorTimeoutSeconds = 60

// DefaultCacheDir returns the default directory for downloaded hub repos.
// HFSERVE_CACHE_DIR wins over the platform convention.
func DefaultCacheDir() string {
	if dir := os.Getenv(envvar.HfserveCacheDir); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "hfserve", "models")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "hfserve", "models")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "hfserve", "models")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "hfserve", "models")
		}
		return filepath.Join(home, ".cache", "hfserve", "models")
	}
}
