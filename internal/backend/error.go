package backend

import "errors"

// Error definitions for the backend package.
var (
	// ErrEngineUnavailable is returned when the vLLM backend is requested
	// explicitly but the engine is not installed on this host. An explicit
	// request never degrades silently.
	ErrEngineUnavailable = errors.New("backend is set to vllm but the vLLM engine is not available")
)
