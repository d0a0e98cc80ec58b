package vllm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ekisa-team/hfserve/internal/hub"
)

func TestSupportedArchitecture(t *testing.T) {
	assert.True(t, SupportedArchitecture(&hub.Metadata{
		Architectures: []string{"LlamaForCausalLM"},
	}))

	// Any supported entry is enough.
	assert.True(t, SupportedArchitecture(&hub.Metadata{
		Architectures: []string{"SomeCustomHead", "MistralForCausalLM"},
	}))

	// Encoder models are never engine-compatible.
	assert.False(t, SupportedArchitecture(&hub.Metadata{
		Architectures: []string{"BertForSequenceClassification"},
	}))

	assert.False(t, SupportedArchitecture(&hub.Metadata{}))
	assert.False(t, SupportedArchitecture(nil))
}
