package main

import (
	"flag"
	"strings"

	"github.com/ekisa-team/hfserve/internal/config"
)

// flagSet holds the raw flag values before they are merged into the
// configuration. Flags set on the command line win over the config file.
type flagSet struct {
	configPath string

	modelDir          string
	modelID           string
	modelName         string
	modelRevision     string
	tokenizerRevision string
	task              string
	backend           string

	maxLength            int
	disableLowerCase     bool
	disableSpecialTokens bool
	trustRemoteCode      bool
	tensorInputNames     string
	returnTokenTypeIDs   bool

	runtimeBin string
	cacheDir   string
	enginePort int

	predictorHost     string
	predictorProtocol string
	predictorUseTLS   bool
	predictorTimeout  int
}

func registerFlags(fs *flag.FlagSet, f *flagSet) {
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file")

	fs.StringVar(&f.modelDir, "model-dir", "", "Local directory containing the model artifacts")
	fs.StringVar(&f.modelID, "model-id", "", "Hugging Face model id, e.g. org/name")
	fs.StringVar(&f.modelName, "model-name", "", "Served model name (defaults to the model reference basename)")
	fs.StringVar(&f.modelRevision, "model-revision", "", "Model revision to download")
	fs.StringVar(&f.tokenizerRevision, "tokenizer-revision", "", "Tokenizer revision (defaults to the model revision)")
	fs.StringVar(&f.task, "task", "", "Explicit ML task (skips architecture inference)")
	fs.StringVar(&f.backend, "backend", "auto", "Serving backend: auto, standard or vllm")

	fs.IntVar(&f.maxLength, "max-length", 0, "Maximum sequence length for the tokenizer")
	fs.BoolVar(&f.disableLowerCase, "disable-lower-case", false, "Do not lower-case input in the tokenizer")
	fs.BoolVar(&f.disableSpecialTokens, "disable-special-tokens", false, "Do not add special tokens when tokenizing")
	fs.BoolVar(&f.trustRemoteCode, "trust-remote-code", false, "Allow custom model code from the hub")
	fs.StringVar(&f.tensorInputNames, "tensor-input-names", "", "Comma-separated tensor input names for v2 delegation")
	fs.BoolVar(&f.returnTokenTypeIDs, "return-token-type-ids", false, "Include token type ids in encoder payloads")

	fs.StringVar(&f.runtimeBin, "runtime-bin", "", "Runtime binary for the standard generative path")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "Directory for downloaded hub repos")
	fs.IntVar(&f.enginePort, "engine-port", 0, "Port for the vLLM engine server")

	fs.StringVar(&f.predictorHost, "predictor-host", "", "Predictor host for non-generative tasks, e.g. host:port")
	fs.StringVar(&f.predictorProtocol, "predictor-protocol", "", "Predictor inference protocol: v1 or v2")
	fs.BoolVar(&f.predictorUseTLS, "predictor-use-tls", false, "Use HTTPS when talking to the predictor")
	fs.IntVar(&f.predictorTimeout, "predictor-timeout-seconds", 0, "Predictor request timeout in seconds")
}

// apply copies every flag that was explicitly set on the command line
// into cfg, overriding whatever the config file provided.
func (f *flagSet) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "model-dir":
			cfg.ModelDir = f.modelDir
		case "model-id":
			cfg.ModelID = f.modelID
		case "model-name":
			cfg.ModelName = f.modelName
		case "model-revision":
			cfg.ModelRevision = f.modelRevision
		case "tokenizer-revision":
			cfg.TokenizerRevision = f.tokenizerRevision
		case "task":
			cfg.Task = f.task
		case "backend":
			cfg.Backend = f.backend
		case "max-length":
			cfg.MaxLength = f.maxLength
		case "disable-lower-case":
			cfg.DisableLowerCase = f.disableLowerCase
		case "disable-special-tokens":
			cfg.DisableSpecialTokens = f.disableSpecialTokens
		case "trust-remote-code":
			cfg.TrustRemoteCode = f.trustRemoteCode
		case "tensor-input-names":
			cfg.TensorInputNames = splitCSV(f.tensorInputNames)
		case "return-token-type-ids":
			cfg.ReturnTokenTypeIDs = f.returnTokenTypeIDs
		case "runtime-bin":
			cfg.RuntimeBin = f.runtimeBin
		case "cache-dir":
			cfg.CacheDir = f.cacheDir
		case "engine-port":
			cfg.Engine.Port = f.enginePort
		case "predictor-host":
			cfg.Predictor.Host = f.predictorHost
		case "predictor-protocol":
			cfg.Predictor.Protocol = f.predictorProtocol
		case "predictor-use-tls":
			cfg.Predictor.UseTLS = f.predictorUseTLS
		case "predictor-timeout-seconds":
			cfg.Predictor.TimeoutSeconds = f.predictorTimeout
		}
	})

	if cfg.Backend == "" {
		cfg.Backend = f.backend
	}
}

// splitCSV splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
