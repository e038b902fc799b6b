package script

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quizScript builds intro -> q1 (INTERACT) -> choice1 -> correct1|incorrect1 -> END.
func quizScript() *Script {
	s := New("Arithmetic - Grade 9 CBSE", "intro")
	s.Events["intro"] = &Teach{
		Next:   "q1",
		Avatar: Avatar{Gesture: GestureWelcome},
		Speech: Speech{Content: "<speak><prosody rate='slow'>Welcome!</prosody></speak>"},
		Whiteboard: Whiteboard{Elements: []Element{
			&TextElement{ElementID: "title", Content: "Arithmetic", Style: Style{FontSize: 32, FontWeight: "700", TextAlign: "center", Width: 400}, Animation: FadeIn(1000)},
		}},
	}
	s.Events["q1"] = &Interact{
		Next:   "choice1",
		Avatar: Avatar{Gesture: GestureThink},
		Speech: Speech{Content: "<speak><prosody rate='slow'>What is 2+2?</prosody></speak>"},
		Whiteboard: Whiteboard{Elements: []Element{
			&MCQElement{
				ElementID:      "mcq_00000001",
				QuestionType:   Single,
				Question:       "What is 2+2?",
				Options:        Options{{"C", "5"}, {"A", "3"}, {"B", "4"}},
				CorrectOptions: []string{"B"},
				Style:          Style{Width: 400},
			},
		}},
	}
	s.Events["choice1"] = &Choice{Choices: []Branch{
		{Condition: Includes("mcq_00000001", "B"), NextEvent: "correct1"},
		{Condition: Otherwise(), NextEvent: "incorrect1"},
	}}
	s.Events["correct1"] = &Teach{Next: "pause", Avatar: Avatar{Gesture: GestureWelcome}}
	s.Events["incorrect1"] = &Teach{Next: "pause", Avatar: Avatar{Gesture: GestureExplain}}
	s.Events["pause"] = &Wait{WaitTime: 1500, Next: End}
	return s
}

func TestScriptJSONShape(t *testing.T) {
	raw, err := json.Marshal(quizScript())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "Arithmetic - Grade 9 CBSE", doc["title"])
	assert.Equal(t, "intro", doc["startEvent"])
	assert.NotContains(t, doc, "chapter")

	events := doc["lessonEvents"].(map[string]any)
	require.Len(t, events, 6)

	choice := events["choice1"].(map[string]any)
	assert.Equal(t, "CHOICE", choice["type"])
	branches := choice["choices"].([]any)
	require.Len(t, branches, 2)
	first := branches[0].(map[string]any)
	assert.Equal(t, "$includes($mcq_00000001, 'B')", first["condition"])
	assert.Equal(t, true, first["value"])
	assert.Equal(t, "correct1", first["nextEvent"])
	assert.Equal(t, "true", branches[1].(map[string]any)["condition"])

	wait := events["pause"].(map[string]any)
	assert.Equal(t, "WAIT", wait["type"])
	assert.Equal(t, float64(1500), wait["waitTime"])
	assert.Equal(t, "END", wait["next"])

	correct := events["correct1"].(map[string]any)
	wb := correct["whiteboard"].(map[string]any)
	assert.Equal(t, []any{}, wb["elements"], "empty whiteboard must encode as an empty array")

	intro := events["intro"].(map[string]any)
	title := intro["whiteboard"].(map[string]any)["elements"].([]any)[0].(map[string]any)
	assert.Equal(t, "TEXT", title["type"])
	assert.Equal(t, "title", title["elementId"])
	assert.Equal(t, map[string]any{"fontSize": float64(32), "fontWeight": "700", "textAlign": "center", "width": float64(400)}, title["style"])
	assert.Equal(t, []any{map[string]any{"type": "FADE_IN", "duration": float64(1000)}}, title["animation"])
}

func TestOptionsKeepOrder(t *testing.T) {
	raw, err := json.Marshal(quizScript())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"options":{"C":"5","A":"3","B":"4"}`)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	q1 := parsed.Events["q1"].(*Interact)
	mcq, ok := q1.MCQ()
	require.True(t, ok)
	assert.Equal(t, []string{"C", "A", "B"}, mcq.Options.Keys())
	assert.Equal(t, []string{"4"}, mcq.CorrectText())
}

func TestParseRestoresVariants(t *testing.T) {
	original := quizScript()
	original.Chapter = "Numbers"
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Numbers", parsed.Chapter)
	assert.IsType(t, &Teach{}, parsed.Events["intro"])
	assert.IsType(t, &Interact{}, parsed.Events["q1"])
	assert.IsType(t, &Choice{}, parsed.Events["choice1"])
	assert.IsType(t, &Wait{}, parsed.Events["pause"])

	choice := parsed.Events["choice1"].(*Choice)
	assert.Equal(t, Includes("mcq_00000001", "B"), choice.Choices[0].Condition)
	assert.True(t, choice.Choices[1].Condition.Default)

	intro := parsed.Events["intro"].(*Teach)
	require.Len(t, intro.Whiteboard.Elements, 1)
	assert.IsType(t, &TextElement{}, intro.Whiteboard.Elements[0])
}

func TestParseRejectsUnknownTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "event type",
			doc:  `{"title":"t","startEvent":"a","lessonEvents":{"a":{"type":"JUMP"}}}`,
			want: `unknown event type "JUMP"`,
		},
		{
			name: "element type",
			doc:  `{"title":"t","startEvent":"a","lessonEvents":{"a":{"type":"TEACH","next":"END","avatar":{"gesture":"THINK"},"speech":{"content":""},"whiteboard":{"elements":[{"type":"VIDEO","elementId":"v"}]}}}}`,
			want: `unknown element type "VIDEO"`,
		},
		{
			name: "condition expression",
			doc:  `{"title":"t","startEvent":"a","lessonEvents":{"a":{"type":"CHOICE","choices":[{"condition":"$count($x) > 1","nextEvent":"END"}]}}}`,
			want: "unsupported condition",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTable2Element(t *testing.T) {
	row, col := 1, 0
	el := &Table2Element{
		ElementID: "table_1",
		Header:    []string{"x", "x²"},
		Content:   [][]string{{"1", "1"}, {"2", "4"}},
		RowIndex:  &row, ColumnIndex: &col,
		RenderBorder: true,
		Style:        Style{Width: 400},
	}
	raw, err := json.Marshal(el)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), `{"type":"TABLE2","elementId":"table_1"`), string(raw))

	decoded, err := DecodeElement(raw)
	require.NoError(t, err)
	table := decoded.(*Table2Element)
	assert.Equal(t, [][]string{{"1", "1"}, {"2", "4"}}, table.Content)
	require.NotNil(t, table.RowIndex)
	assert.Equal(t, 1, *table.RowIndex)
}

func TestCounts(t *testing.T) {
	counts := quizScript().Counts()
	assert.Equal(t, 3, counts[TypeTeach])
	assert.Equal(t, 1, counts[TypeInteract])
	assert.Equal(t, 1, counts[TypeChoice])
	assert.Equal(t, 1, counts[TypeWait])
}
