package task

import (
	"strings"

	"github.com/ekisa-team/hfserve/internal/hub"
)

// archSuffixes maps architecture-name suffixes to tasks following the
// transformers model-family naming conventions. The longest matching
// suffix wins, so inference is deterministic regardless of table order.
var archSuffixes = []struct {
	suffix string
	task   Task
}{
	{"ForSequenceClassification", SequenceClassification},
	{"ForTokenClassification", TokenClassification},
	{"ForMaskedLM", FillMask},
	{"ForCausalLM", TextGeneration},
	{"LMHeadModel", TextGeneration},
	{"ForConditionalGeneration", Text2TextGeneration},
	{"TapasForQuestionAnswering", TableQuestionAnswering},
	{"ForQuestionAnswering", QuestionAnswering},
	{"ForMultipleChoice", MultipleChoice},
}

// Resolve maps an explicit task name or, absent one, architecture metadata
// to exactly one supported task. An explicit request always wins over
// inference; there is no merging.
func Resolve(explicit string, meta *hub.Metadata) (Task, error) {
	if explicit != "" {
		t, ok := Parse(explicit)
		if !ok || !t.Supported() {
			return 0, &UnsupportedTaskError{Name: explicit, Supported: SupportedNames()}
		}
		return t, nil
	}

	return infer(meta)
}

// infer derives the task from the declared architectures. The first
// declared architecture with a matching family suffix decides.
func infer(meta *hub.Metadata) (Task, error) {
	var architectures []string
	if meta != nil {
		architectures = meta.Architectures
	}

	for _, arch := range architectures {
		t, ok := matchArchitecture(arch)
		if !ok {
			continue
		}
		if !t.Supported() {
			return 0, &UnsupportedTaskError{Name: t.String(), Supported: SupportedNames()}
		}
		return t, nil
	}

	return 0, &InferenceError{Architectures: architectures}
}

func matchArchitecture(name string) (Task, bool) {
	best := -1
	var bestTask Task

	for _, entry := range archSuffixes {
		if strings.HasSuffix(name, entry.suffix) && len(entry.suffix) > best {
			best = len(entry.suffix)
			bestTask = entry.task
		}
	}

	return bestTask, best >= 0
}
