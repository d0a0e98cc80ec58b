package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/hfserve/internal/backend"
	"github.com/ekisa-team/hfserve/internal/config"
	"github.com/ekisa-team/hfserve/internal/hub"
	"github.com/ekisa-team/hfserve/internal/task"
)

func TestCreate_EngineRejectsNonGenerativeTasks(t *testing.T) {
	cfg := &config.Config{ModelID: "org/model"}
	meta := &hub.Metadata{Architectures: []string{"BertForSequenceClassification"}}

	for _, tk := range []task.Task{task.SequenceClassification, task.TokenClassification, task.FillMask, task.TextEmbedding} {
		_, err := Create(tk, backend.VLLM, cfg, meta, "")

		var incompatible *IncompatibleTaskError
		require.ErrorAs(t, err, &incompatible, "task %s", tk)
		assert.Equal(t, tk, incompatible.Task)
	}
}

func TestCreate_EnginePath(t *testing.T) {
	cfg := &config.Config{
		ModelID:       "meta-llama/Llama-3.1-8B",
		ModelRevision: "abc123",
	}
	meta := &hub.Metadata{Architectures: []string{"LlamaForCausalLM"}}

	m, err := Create(task.TextGeneration, backend.VLLM, cfg, meta, "")
	require.NoError(t, err)

	engine, ok := m.(*EngineModel)
	require.True(t, ok)
	assert.Equal(t, backend.VLLM, engine.Backend())
	assert.Equal(t, task.TextGeneration, engine.Task())
	assert.Equal(t, "meta-llama/Llama-3.1-8B", engine.Args().Model)
	assert.Equal(t, "abc123", engine.Args().Revision)
	assert.False(t, engine.Ready())
}

func TestCreate_StandardGenerativePath(t *testing.T) {
	cfg := &config.Config{ModelDir: "/opt/models/gpt2", MaxLength: 1024}
	meta := &hub.Metadata{Architectures: []string{"GPT2LMHeadModel"}}

	m, err := Create(task.TextGeneration, backend.Standard, cfg, meta, cfg.ModelDir)
	require.NoError(t, err)

	generative, ok := m.(*GenerativeModel)
	require.True(t, ok)
	assert.Equal(t, backend.Standard, generative.Backend())
	assert.Equal(t, 1024, generative.opts.MaxLength)
	assert.False(t, generative.Ready())
}

func TestCreate_EncoderPathRequiresPredictor(t *testing.T) {
	cfg := &config.Config{ModelDir: "/opt/models/bert"}
	meta := &hub.Metadata{Architectures: []string{"BertForSequenceClassification"}}

	_, err := Create(task.SequenceClassification, backend.Standard, cfg, meta, cfg.ModelDir)
	assert.ErrorIs(t, err, ErrMissingPredictorHost)
}

func TestCreate_EncoderPath(t *testing.T) {
	cfg := &config.Config{
		ModelDir: "/opt/models/bert",
		Predictor: config.PredictorConfig{
			Host:     "predictor.default.svc:8080",
			Protocol: config.ProtocolV2,
			UseTLS:   true,
		},
		TensorInputNames: []string{"input_ids"},
	}
	meta := &hub.Metadata{Architectures: []string{"BertForSequenceClassification"}}

	m, err := Create(task.SequenceClassification, backend.Standard, cfg, meta, cfg.ModelDir)
	require.NoError(t, err)

	encoder, ok := m.(*EncoderModel)
	require.True(t, ok)
	assert.Equal(t, task.SequenceClassification, encoder.Task())
	assert.Equal(t, "https://predictor.default.svc:8080/v2/models/bert/infer", encoder.PredictorInferURL())
}

func TestCreate_AutoMustBeResolved(t *testing.T) {
	cfg := &config.Config{ModelID: "org/model"}
	_, err := Create(task.TextGeneration, backend.Auto, cfg, nil, "")
	assert.ErrorContains(t, err, "backend must be concrete")
}

func TestTokenizerOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		ModelID:              "org/model",
		ModelRevision:        "main",
		DisableLowerCase:     true,
		DisableSpecialTokens: false,
		MaxLength:            256,
		TrustRemoteCode:      true,
	}

	opts := tokenizerOptionsFromConfig(cfg)
	assert.False(t, opts.DoLowerCase)
	assert.True(t, opts.AddSpecialTokens)
	assert.Equal(t, 256, opts.MaxLength)
	assert.True(t, opts.TrustRemoteCode)
	// Tokenizer revision falls back to the model revision.
	assert.Equal(t, "main", opts.Revision)

	cfg.TokenizerRevision = "tok-rev"
	assert.Equal(t, "tok-rev", tokenizerOptionsFromConfig(cfg).Revision)
}
