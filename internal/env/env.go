package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/hfserve/internal/envvar"
)

// Environment identifies the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// FromEnv reads the environment from HFSERVE_ENV.
// Unrecognized values fall back to development.
func FromEnv() Environment {
	switch strings.ToLower(os.Getenv(envvar.HfserveEnv)) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}
