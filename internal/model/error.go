package model

import (
	"errors"
	"fmt"

	"github.com/ekisa-team/hfserve/internal/task"
)

// Error definitions for the model package.
var (
	ErrNotLoaded            = errors.New("model is not loaded")
	ErrMissingPredictorHost = errors.New("a predictor host is required for non-generative tasks on the standard backend")
)

// IncompatibleTaskError reports a non-generative task resolved against the
// vLLM backend. The engine only serves generative tasks, so the two must
// agree.
type IncompatibleTaskError struct {
	Task task.Task
}

func (e *IncompatibleTaskError) Error() string {
	return fmt.Sprintf("task %s is not generative and cannot be served by the vllm backend", e.Task)
}
