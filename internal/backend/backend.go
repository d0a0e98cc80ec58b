package backend

import (
	"fmt"
	"io"
	"time"
)

// Choice selects the runtime that will execute inference. It is a closed
// set; string names are only the external form, validated by Parse.
type Choice int

const (
	// Auto upgrades to the vLLM engine when it is available and the
	// architecture is compatible, falling back to Standard otherwise.
	Auto Choice = iota

	// Standard executes requests one at a time: generative tasks through
	// the subprocess runtime, everything else by delegating to a
	// predictor process.
	Standard

	// VLLM serves generative tasks through a supervised vLLM server.
	VLLM
)

var choiceNames = map[Choice]string{
	Auto:     "auto",
	Standard: "standard",
	VLLM:     "vllm",
}

// String returns the external name of the choice.
func (c Choice) String() string {
	if name, ok := choiceNames[c]; ok {
		return name
	}
	return "unknown"
}

// Parse maps an external backend name to its Choice.
func Parse(name string) (Choice, error) {
	for c, n := range choiceNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown backend %q, available backends are: auto, standard, vllm", name)
}

// Request carries one inference payload to a runtime model.
type Request struct {
	// Input is the raw input data.
	Input io.Reader

	// Parameters contains backend-specific inference parameters.
	Parameters map[string]any
}

// Response contains the result of an inference operation.
type Response struct {
	// Output is the raw output data.
	Output io.Reader

	// Metadata contains backend-specific information.
	Metadata *ResponseMetadata
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	Backend     string    `json:"backend"`
	Model       string    `json:"model"`
	RequestID   string    `json:"request_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	OutputBytes int64     `json:"output_bytes"`
}

// StreamChunk represents a single chunk in a streaming response.
type StreamChunk struct {
	// Data is the chunk content.
	Data []byte

	// Done indicates if this is the final chunk.
	Done bool

	// Error if something went wrong.
	Error error
}
