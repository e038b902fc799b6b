package retrieval

import (
	"fmt"
	"slices"
	"strings"
)

// GradeRange describes when a topic is taught.
type GradeRange struct {
	MinGrade      int
	OptimalGrades []int
}

// topicGrades lists topics with a known grade range. Topics not listed are
// appropriate for every grade.
var topicGrades = map[string]GradeRange{
	"quadratic_equations": {MinGrade: 8, OptimalGrades: []int{9, 10, 11, 12}},
	"digestive_system":    {MinGrade: 3, OptimalGrades: []int{6, 7, 8, 9, 10}},
}

// Levels by grade band.
const (
	LevelElementary   = "elementary"
	LevelMiddleSchool = "middle_school"
	LevelHighSchool   = "high_school"
)

// Level maps a grade to its school level.
func Level(grade int) string {
	switch {
	case grade <= 5:
		return LevelElementary
	case grade <= 8:
		return LevelMiddleSchool
	default:
		return LevelHighSchool
	}
}

// CheckGrade reports whether topic suits grade. The message is set when
// the topic is too early, or when it is allowed but outside the optimal
// grades.
func CheckGrade(topic string, grade int) (bool, string) {
	r, ok := topicGrades[topic]
	if !ok {
		return true, ""
	}
	switch {
	case grade < r.MinGrade:
		return false, fmt.Sprintf("This topic is typically taught in grade %d and above.", r.MinGrade)
	case slices.Contains(r.OptimalGrades, grade):
		return true, ""
	default:
		return true, "This is an advanced topic for your grade level."
	}
}

// TopicName renders a topic key for people: "quadratic_equations" becomes
// "Quadratic Equations".
func TopicName(topic string) string {
	words := strings.Fields(strings.ReplaceAll(topic, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// NotAppropriate builds the upstream-style response for a topic requested
// below its minimum grade.
func NotAppropriate(topic string, grade int) *LessonResponse {
	name := TopicName(topic)
	minGrade := topicGrades[topic].MinGrade
	appropriate := false

	answer := fmt.Sprintf(`I understand you're curious about %[1]s!

However, %[1]s is typically taught in higher grades (usually starting from grade %[2]d).

Right now, you're in grade %[3]d, so it's perfectly normal that this topic hasn't been covered yet. Your teachers will introduce you to %[1]s when you're ready for it in the coming years.

Keep being curious about learning - that's wonderful! For now, you might want to focus on the topics that are part of your current grade curriculum. Is there anything else from your current studies that I can help you with?`,
		name, minGrade, grade)

	return &LessonResponse{
		Answer:           answer,
		Topic:            topic,
		GradeAppropriate: &appropriate,
		RecommendedGrade: minGrade,
		CurrentGrade:     grade,
	}
}

// curriculum maps topics to their textbook chapter and subject.
var curriculum = map[string][2]string{
	"quadratic_equations": {"Polynomials", "Mathematics"},
	"digestive_system":    {"Human Body Systems", "Biology"},
}

// Curriculum returns the chapter and subject a topic belongs to.
func Curriculum(topic string) (chapter, subject string) {
	if c, ok := curriculum[topic]; ok {
		return c[0], c[1]
	}
	return "General Knowledge", "Science"
}
