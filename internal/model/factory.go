package model

import (
	"fmt"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/backend/vllm"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/hub"
	"github.com/ekisa-team/hfserve/internal/task"
)

// Create instantiates the runtime model for a resolved task/backend pair.
// Two terminal construction paths exist, selected by the backend crossed
// with the task kind; construction itself performs no I/O.
func Create(t task.Task, choice backend.Choice, cfg *config.Config, meta *hub.Metadata, path string) (Model, error) {
	switch choice {
	case backend.VLLM:
		if !t.Generative() {
			return nil, &IncompatibleTaskError{Task: t}
		}

		ref := path
		if ref == "" {
			ref = cfg.ModelRef()
		}
		args, err := vllm.BuildArgs(cfg, ref)
		if err != nil {
			return nil, err
		}

		return NewEngineModel(cfg.Name(), t, args), nil

	case backend.Standard:
		if t.Generative() {
			return NewGenerativeModel(cfg, t, meta, path), nil
		}

		if cfg.Predictor.Host == "" {
			return nil, ErrMissingPredictorHost
		}
		return NewEncoderModel(cfg, t, meta, path), nil

	default:
		// Auto must have been resolved by the selector before
		// construction.
		return nil, fmt.Errorf("model: backend must be concrete before construction, got %s", choice)
	}
}
