package compiler

import (
	"github.com/abhisek/lessonscript/internal/classify"
	"github.com/abhisek/lessonscript/internal/markup"
	"github.com/abhisek/lessonscript/internal/script"
)

// Element defaults.
const (
	ElementWidth     = 400
	TextFontSize     = 20
	EquationFontSize = 24
	TitleFontSize    = 32
	FadeInMillis     = 1000
)

func titleStyle() script.Style {
	return script.Style{FontSize: TitleFontSize, FontWeight: "700", TextAlign: "center"}
}

// textElement builds a TEXT element. Zero fields of style take the text
// defaults.
func textElement(content, id string, style script.Style, animate bool) *script.TextElement {
	if style.FontSize == 0 {
		style.FontSize = TextFontSize
	}
	if style.Width == 0 {
		style.Width = ElementWidth
	}
	el := &script.TextElement{ElementID: id, Content: content, Style: style}
	if animate {
		el.Animation = script.FadeIn(FadeInMillis)
	}
	return el
}

func equationElement(text, id string) *script.EquationElement {
	return &script.EquationElement{
		ElementID:    id,
		KatexContent: markup.ToMath(text),
		Style:        script.Style{FontSize: EquationFontSize, Width: ElementWidth},
		Animation:    script.FadeIn(FadeInMillis),
	}
}

func mcqElement(mcq *classify.MCQ, id string) *script.MCQElement {
	return &script.MCQElement{
		ElementID:      id,
		QuestionType:   mcq.QuestionType,
		Question:       mcq.Question,
		Options:        mcq.Options,
		CorrectOptions: mcq.CorrectOptions,
		Style:          script.Style{Width: ElementWidth},
	}
}
