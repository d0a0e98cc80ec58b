package vllm

import (
	"errors"
	"strconv"

	"github.com/ekisa-team/hfserve/internal/config"
)

// Error definitions for the vllm package.
var (
	ErrMissingModelRef = errors.New("vllm: engine args require a model path or id")
)

// Args is the construction parameter set for the engine server.
type Args struct {
	Model           string
	ServedModelName string
	Revision        string
	Port            int
	MaxModelLen     int
	TrustRemoteCode bool
	Extra           []string
}

// BuildArgs maps the resolved configuration into engine construction
// parameters. The model reference is re-checked even though config
// validation runs earlier: engine construction failures surface late and
// are expensive.
func BuildArgs(cfg *config.Config, modelRef string) (*Args, error) {
	if modelRef == "" {
		return nil, ErrMissingModelRef
	}

	args := &Args{
		Model:           modelRef,
		ServedModelName: cfg.Name(),
		Revision:        cfg.ModelRevision,
		Port:            cfg.Engine.Port,
		MaxModelLen:     cfg.MaxLength,
		TrustRemoteCode: cfg.TrustRemoteCode,
		Extra:           cfg.Engine.ExtraArgs,
	}
	if args.Port == 0 {
		args.Port = DefaultPort
	}

	return args, nil
}

// CommandLine renders the argv for `vllm serve`. Engine-specific extra
// args pass through unchanged, after the flags hfserve owns.
func (a *Args) CommandLine() []string {
	argv := []string{"serve", a.Model, "--port", strconv.Itoa(a.Port)}

	if a.ServedModelName != "" {
		argv = append(argv, "--served-model-name", a.ServedModelName)
	}
	if a.Revision != "" {
		argv = append(argv, "--revision", a.Revision)
	}
	if a.MaxModelLen > 0 {
		argv = append(argv, "--max-model-len", strconv.Itoa(a.MaxModelLen))
	}
	if a.TrustRemoteCode {
		argv = append(argv, "--trust-remote-code")
	}

	return append(argv, a.Extra...)
}
