package task

// Task is one member of the closed set of prediction kinds hfserve knows
// about. String names are only the external serialization form; they are
// validated at the boundary by Parse.
type Task int

const (
	SequenceClassification Task = iota
	TokenClassification
	FillMask
	TextGeneration
	Text2TextGeneration
	TextEmbedding

	// Known but not currently servable.
	QuestionAnswering
	TableQuestionAnswering
	MultipleChoice
)

var taskNames = map[Task]string{
	SequenceClassification: "sequence_classification",
	TokenClassification:    "token_classification",
	FillMask:               "fill_mask",
	TextGeneration:         "text_generation",
	Text2TextGeneration:    "text2text_generation",
	TextEmbedding:          "text_embedding",
	QuestionAnswering:      "question_answering",
	TableQuestionAnswering: "table_question_answering",
	MultipleChoice:         "multiple_choice",
}

var tasksByName = func() map[string]Task {
	m := make(map[string]Task, len(taskNames))
	for t, name := range taskNames {
		m[name] = t
	}
	return m
}()

// String returns the external name of the task.
func (t Task) String() string {
	if name, ok := taskNames[t]; ok {
		return name
	}
	return "unknown"
}

// Generative reports whether the task produces open-ended text rather than
// fixed-shape predictions.
func (t Task) Generative() bool {
	return t == TextGeneration || t == Text2TextGeneration
}

// Supported reports whether hfserve can serve the task.
func (t Task) Supported() bool {
	switch t {
	case SequenceClassification, TokenClassification, FillMask,
		TextGeneration, Text2TextGeneration, TextEmbedding:
		return true
	default:
		return false
	}
}

// Parse maps an external task name to its Task.
func Parse(name string) (Task, bool) {
	t, ok := tasksByName[name]
	return t, ok
}

// SupportedNames returns the names of all servable tasks, in a stable
// order, for error messages.
func SupportedNames() []string {
	names := make([]string, 0, len(taskNames))
	for t := SequenceClassification; t <= TextEmbedding; t++ {
		names = append(names, t.String())
	}
	return names
}
