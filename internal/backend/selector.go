package backend

import (
	"fmt"

	"github.com/ekisa-team/hfserve/internal/backend/vllm"
	"github.com/ekisa-team/hfserve/internal/hub"
)

// Select resolves a requested backend to a concrete, non-auto choice.
// The decision is pure: engine availability is injected rather than probed
// inline.
func Select(requested Choice, meta *hub.Metadata, engineAvailable bool) (Choice, error) {
	switch requested {
	case Standard:
		// The operator opted out of the engine.
		return Standard, nil

	case VLLM:
		if !engineAvailable {
			return Standard, ErrEngineUnavailable
		}
		return VLLM, nil

	case Auto:
		// Best-effort upgrade: degrades to the standard runtime when the
		// engine is missing or the architecture is not compatible with it,
		// never an error.
		if engineAvailable && vllm.SupportedArchitecture(meta) {
			return VLLM, nil
		}
		return Standard, nil

	default:
		return Standard, fmt.Errorf("unknown backend choice %d", requested)
	}
}
