package retrieval

import (
	"fmt"
	"strings"
)

func systemPrompt(req LessonRequest) string {
	return fmt.Sprintf(`You are a friendly %s teacher for grade %d students following the %s board syllabus. You write short spoken lessons that a classroom avatar reads aloud while showing key lines on a whiteboard. Answer in %s.`,
		levelName(Level(req.Grade)), req.Grade, req.Board, req.Language)
}

func levelName(level string) string {
	return strings.ReplaceAll(level, "_", " ")
}

func buildLessonMessage(req LessonRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", TopicName(req.Topic))
	if req.Subtopic != "" {
		fmt.Fprintf(&b, "Subtopic: %s\n", TopicName(req.Subtopic))
	}
	if len(req.MethodPreference) > 0 {
		fmt.Fprintf(&b, "Preferred methods: %s\n", strings.Join(req.MethodPreference, ", "))
	}
	if req.Message != "" {
		fmt.Fprintf(&b, "Student question: %s\n", req.Message)
	}

	b.WriteString(`
Instructions:
1. Write 4-8 short paragraphs separated by one blank line. Each paragraph is read aloud on its own.
2. Put every equation on its own paragraph using plain symbols (=, +, -, ^, sqrt).
3. Include one worked example paragraph that starts with "For example".
4. End with exactly one multiple-choice question: the question on the first line, then options on separate lines as "A) ...", "B) ...", "C) ...", "D) ...". Mark the right option with "(correct)".
5. Do not use markdown headings, bullet symbols or LaTeX.`)

	return b.String()
}
