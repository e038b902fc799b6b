package compiler

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonscript/internal/markup"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
)

const (
	breakShort = "<break time='200ms'/>"

	// adaptiveSpeechChars bounds the item text read aloud per adaptive event.
	adaptiveSpeechChars = 100
)

// NotGradeAppropriate returns the fixed three-event script explaining that
// the requested topic does not fit the learner's grade. The upstream answer
// is shown and read verbatim.
func NotGradeAppropriate(resp retrieval.LessonResponse) *script.Script {
	grade := ""
	if resp.CurrentGrade != 0 {
		grade = fmt.Sprintf("Grade %d", resp.CurrentGrade)
	}
	s := script.New(fmt.Sprintf("About %s Topics", grade), IntroID)

	s.Events[IntroID] = &script.Teach{
		Next:   "explanation",
		Avatar: script.Avatar{Gesture: script.GestureWelcome},
		Speech: script.Speech{Content: markup.Wrap(
			"Hello there!" + breakShort + " I'd like to help you understand which topics are appropriate for your grade level.")},
		Whiteboard: script.Whiteboard{Elements: []script.Element{
			textElement("Learning at the Right Level", "title", titleStyle(), true),
		}},
	}
	s.Events["explanation"] = &script.Teach{
		Next:   "suggestions",
		Avatar: script.Avatar{Gesture: script.GestureExplain},
		Speech: script.Speech{Content: markup.Wrap(
			strings.ReplaceAll(resp.Answer, "\n", markup.SentenceBreak+" "))},
		Whiteboard: script.Whiteboard{Elements: []script.Element{
			textElement(resp.Answer, "explanation", script.Style{}, true),
		}},
	}
	s.Events["suggestions"] = &script.Teach{
		Next:   script.End,
		Avatar: script.Avatar{Gesture: script.GestureWelcome},
		Speech: script.Speech{Content: markup.Wrap(
			"Would you like to explore some topics that are perfect for your grade level instead?" + breakShort +
				" I'd be happy to suggest some interesting ones!")},
		Whiteboard: script.Whiteboard{Elements: []script.Element{
			textElement("Here are some topics that would be great for your current grade level:"+
				"<br><br>• Basic arithmetic and pre-algebra"+
				"<br>• Introduction to plants and animals"+
				"<br>• Earth and space science"+
				"<br>• History and geography",
				"suggestions", script.Style{}, true),
		}},
	}
	return s
}

// Adaptive returns a script presenting recommended content items in order,
// one EXPLAIN event per item. An empty list yields a single THINK event
// saying nothing specific was found.
func Adaptive(items []retrieval.AdaptiveItem, topic string, grade int, board string) *script.Script {
	name := humanize(topic)
	s := script.New(fmt.Sprintf("Adaptive Content: %s - Grade %d %s", name, grade, board), IntroID)

	s.Events[IntroID] = &script.Teach{
		Next:   contentID(1),
		Avatar: script.Avatar{Gesture: script.GestureWelcome},
		Speech: script.Speech{Content: markup.Wrap(
			"I've selected some content that's perfect for your current level." + breakShort +
				" Let's explore these materials to help you learn more effectively.")},
		Whiteboard: script.Whiteboard{Elements: []script.Element{
			textElement("Adaptive Learning: "+name, "title", titleStyle(), true),
		}},
	}

	if len(items) == 0 {
		s.Events[contentID(1)] = &script.Teach{
			Next:   script.End,
			Avatar: script.Avatar{Gesture: script.GestureThink},
			Speech: script.Speech{Content: markup.Wrap(
				"I couldn't find specific adaptive content for your current level." + breakShort +
					" Let's explore the topic more broadly instead.")},
			Whiteboard: script.Whiteboard{Elements: []script.Element{
				textElement("No specific adaptive content found. Let's start with the basics of the topic.",
					"no_content", script.Style{}, false),
			}},
		}
		return s
	}

	for i, item := range items {
		next := contentID(i + 2)
		if i == len(items)-1 {
			next = script.End
		}

		text := item.Text
		if text == "" {
			text = "No content available"
		}
		about := name
		if item.Subtopic != "" {
			about = humanize(item.Subtopic)
		}
		kind, heading := "resource", "Resource"
		if item.ContentType != "" {
			kind = humanize(item.ContentType)
			heading = kind
		}

		speech := fmt.Sprintf("Here's a %s about %s.%s %s", kind, about, breakShort,
			strings.ReplaceAll(truncate(text, adaptiveSpeechChars), "\n", markup.SentenceBreak+" "))

		s.Events[contentID(i+1)] = &script.Teach{
			Next:   next,
			Avatar: script.Avatar{Gesture: script.GestureExplain},
			Speech: script.Speech{Content: markup.Wrap(speech)},
			Whiteboard: script.Whiteboard{Elements: []script.Element{
				textElement(heading+": "+about, fmt.Sprintf("content_title_%d", i),
					script.Style{FontSize: 24, FontWeight: "600"}, false),
				textElement(text, fmt.Sprintf("content_text_%d", i),
					script.Style{FontSize: 18}, false),
			}},
		}
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
