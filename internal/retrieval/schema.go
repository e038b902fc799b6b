package retrieval

import "github.com/abhisek/lessonscript/internal/llm"

// answerSchema is the structured reply requested from the model.
var answerSchema = &llm.Schema{
	Name:        "lesson-answer",
	Description: "Lesson text for a school topic and the subtopic it covers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The lesson text: paragraphs separated by blank lines, equations on their own lines, quiz questions followed by lettered options",
			},
			"subtopic": map[string]any{
				"type":        "string",
				"description": "snake_case subtopic the lesson covers",
			},
		},
		"required":             []any{"answer", "subtopic"},
		"additionalProperties": false,
	},
}

type answer struct {
	Answer   string `json:"answer"`
	Subtopic string `json:"subtopic"`
}
