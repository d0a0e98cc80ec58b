package task

import (
	"fmt"
	"strings"
)

// UnsupportedTaskError reports a task name that is unknown or known but
// not servable. The supported names are listed for operator diagnosis.
type UnsupportedTaskError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedTaskError) Error() string {
	return fmt.Sprintf("unsupported task %q, currently supported tasks are: %s",
		e.Name, strings.Join(e.Supported, ", "))
}

// InferenceError reports architecture metadata that matches no known model
// family. Misclassification changes output shape for downstream consumers,
// so an unmatched architecture never defaults to an arbitrary task.
type InferenceError struct {
	Architectures []string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("unable to infer task from architectures [%s]; set the task explicitly",
		strings.Join(e.Architectures, ", "))
}
