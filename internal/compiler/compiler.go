// Package compiler turns upstream lesson text into a Lesson Script.
//
// Compilation is a pure function of its input: segments are classified in
// source order and each becomes one event, or a four-event quiz sub-graph
// when a multiple-choice question can be extracted. All generation state is
// carried by a builder value created per call, so concurrent compiles never
// share anything.
package compiler

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonscript/internal/classify"
	"github.com/abhisek/lessonscript/internal/ids"
	"github.com/abhisek/lessonscript/internal/markup"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
	"github.com/abhisek/lessonscript/internal/segment"
)

// IntroID is the start event of every compiled script.
const IntroID = "intro"

// Fixed speech of the quiz follow-up events.
const (
	CorrectSpeech   = "Great job! That's correct!"
	incorrectFormat = "The correct answer is %s."
)

// Option configures a compile.
type Option func(*options)

type options struct {
	newID ids.Generator
}

// WithIDGenerator sets the element id generator. The default draws random
// ids.
func WithIDGenerator(g ids.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.newID = g
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{newID: ids.Element}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Compile compiles an upstream response. A response carrying an error or
// flagged as not grade appropriate yields the fixed explanation script
// instead of running the pipeline.
func Compile(resp retrieval.LessonResponse, opts ...Option) *script.Script {
	if resp.Error != "" || resp.Inappropriate() {
		return NotGradeAppropriate(resp)
	}
	return Build(resp.Answer, resp.Metadata(), opts...)
}

// Build runs the segment, classify and graph pipeline over text with no
// policy checks.
func Build(text string, meta retrieval.Metadata, opts ...Option) *script.Script {
	o := buildOptions(opts)
	title := Title(meta)
	segments := segment.Split(text)

	b := &builder{
		script: script.New(title, IntroID),
		newID:  o.newID,
		index:  1,
	}
	b.intro(meta.Topic, title, len(segments) > 0)
	for i, seg := range segments {
		b.add(seg, i == len(segments)-1)
	}
	return b.script
}

// builder is the generation state threaded through the segment loop. index
// is the content index of the next segment's first event.
type builder struct {
	script *script.Script
	newID  ids.Generator
	index  int
}

func contentID(n int) string { return fmt.Sprintf("content%d", n) }

// successor returns the id the events of the current segment continue to
// when the segment occupies slots index slots.
func (b *builder) successor(slots int, last bool) string {
	if last {
		return script.End
	}
	return contentID(b.index + slots)
}

func (b *builder) intro(topic, title string, hasContent bool) {
	next := contentID(1)
	if !hasContent {
		next = script.End
	}
	speech := fmt.Sprintf("Welcome to today's lesson on %s!", humanize(topic))
	b.script.Events[IntroID] = teach(speech, next,
		textElement(title, "title", titleStyle(), true))
}

func (b *builder) add(seg string, last bool) {
	id := contentID(b.index)

	switch classify.Classify(seg) {
	case classify.Equation:
		b.script.Events[id] = teach(seg, b.successor(1, last),
			equationElement(seg, b.newID("equation")))
		b.index++
		return
	case classify.Question:
		if mcq, ok := classify.ExtractMCQ(seg); ok {
			b.quiz(id, seg, mcq, last)
			return
		}
	}

	content := seg
	if classify.ContainsList(seg) {
		content = strings.ReplaceAll(seg, "\n", "<br>")
	}
	b.script.Events[id] = teach(seg, b.successor(1, last),
		textElement(content, b.newID("text"), script.Style{}, true))
	b.index++
}

// quiz emits INTERACT -> CHOICE -> correct | incorrect. The sub-graph uses
// three content slots, so both follow-ups continue to content{n+3}.
func (b *builder) quiz(id, seg string, mcq *classify.MCQ, last bool) {
	n := b.index
	next := b.successor(3, last)
	choiceID := fmt.Sprintf("choice%d", n)
	correctID := fmt.Sprintf("correct%d", n)
	incorrectID := fmt.Sprintf("incorrect%d", n)

	el := mcqElement(mcq, b.newID("mcq"))
	b.script.Events[id] = &script.Interact{
		Next:       choiceID,
		Avatar:     script.Avatar{Gesture: script.GestureThink},
		Speech:     script.Speech{Content: markup.ToSpeech(seg)},
		Whiteboard: script.Whiteboard{Elements: []script.Element{el}},
	}

	branches := make([]script.Branch, 0, len(el.CorrectOptions)+1)
	for _, key := range el.CorrectOptions {
		branches = append(branches, script.Branch{
			Condition: script.Includes(el.ElementID, key),
			NextEvent: correctID,
		})
	}
	branches = append(branches, script.Branch{Condition: script.Otherwise(), NextEvent: incorrectID})
	b.script.Events[choiceID] = &script.Choice{Choices: branches}

	b.script.Events[correctID] = teach(CorrectSpeech, next)
	b.script.Events[incorrectID] = teach(
		fmt.Sprintf(incorrectFormat, strings.Join(el.CorrectText(), ", ")), next)

	b.index += 3
}

func teach(content, next string, elements ...script.Element) *script.Teach {
	if elements == nil {
		elements = []script.Element{}
	}
	return &script.Teach{
		Next:       next,
		Avatar:     script.Avatar{Gesture: Gesture(content)},
		Speech:     script.Speech{Content: markup.ToSpeech(content)},
		Whiteboard: script.Whiteboard{Elements: elements},
	}
}

// Gesture picks the avatar pose for narrated content: POINT for examples,
// THINK for questions, WELCOME for greetings and praise, else EXPLAIN.
func Gesture(content string) script.Gesture {
	switch {
	case strings.Contains(content, "example") || strings.Contains(content, "Example"):
		return script.GesturePoint
	case strings.Contains(content, "?"):
		return script.GestureThink
	case strings.Contains(content, "Welcome") || strings.Contains(content, "Great job"):
		return script.GestureWelcome
	default:
		return script.GestureExplain
	}
}
