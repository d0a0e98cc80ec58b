package vllm

import (
	"os/exec"

	"github.com/ekisa-team/hfserve/internal/hub"
)

// Binary is the engine launcher looked up on PATH.
const Binary = "vllm"

// DefaultPort is the engine server port when none is configured.
const DefaultPort = 8000

// Available reports whether the vLLM engine can be launched on this host.
// The result is threaded through backend selection as a capability flag so
// the decision itself stays pure.
func Available() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}

// supportedFamilies lists the decoder architectures the engine is known to
// serve. Kept deliberately conservative: an architecture missing here only
// means the auto backend stays on the standard runtime.
var supportedFamilies = map[string]struct{}{
	"LlamaForCausalLM":      {},
	"MistralForCausalLM":    {},
	"MixtralForCausalLM":    {},
	"Qwen2ForCausalLM":      {},
	"Qwen3ForCausalLM":      {},
	"GemmaForCausalLM":      {},
	"Gemma2ForCausalLM":     {},
	"Phi3ForCausalLM":       {},
	"PhiForCausalLM":        {},
	"FalconForCausalLM":     {},
	"GPT2LMHeadModel":       {},
	"GPTNeoXForCausalLM":    {},
	"GPTBigCodeForCausalLM": {},
	"StableLmForCausalLM":   {},
	"InternLM2ForCausalLM":  {},
	"DeepseekV2ForCausalLM": {},
}

// SupportedArchitecture reports whether any of the declared architectures
// is known to the engine.
func SupportedArchitecture(meta *hub.Metadata) bool {
	if meta == nil {
		return false
	}

	for _, arch := range meta.Architectures {
		if _, ok := supportedFamilies[arch]; ok {
			return true
		}
	}

	return false
}
