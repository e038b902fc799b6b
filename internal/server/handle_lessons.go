package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/lessonscript/internal/lessons"
	"github.com/abhisek/lessonscript/internal/retrieval"
	"github.com/abhisek/lessonscript/internal/script"
)

// handleCompile compiles either raw text with metadata, or an upstream
// response document (policy applied) when "response" is present.
func handleCompile(svc LessonService) http.HandlerFunc {
	type request struct {
		Text     string                    `json:"text"`
		Topic    string                    `json:"topic"`
		Subtopic string                    `json:"subtopic"`
		Grade    int                       `json:"grade"`
		Board    string                    `json:"board"`
		Response *retrieval.LessonResponse `json:"response"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if body.Response != nil {
			writeJSON(w, http.StatusOK, svc.Convert(r.Context(), *body.Response))
			return
		}
		if strings.TrimSpace(body.Text) == "" {
			writeError(w, http.StatusBadRequest, "Missing required fields: text")
			return
		}

		meta := retrieval.Metadata{
			Topic:    body.Topic,
			Subtopic: body.Subtopic,
			Grade:    body.Grade,
			Board:    body.Board,
		}
		if meta.Topic == "" {
			meta.Topic = retrieval.DefaultTopic
		}
		if meta.Grade == 0 {
			meta.Grade = retrieval.DefaultGrade
		}
		if meta.Board == "" {
			meta.Board = retrieval.DefaultBoard
		}

		writeJSON(w, http.StatusOK, svc.CompileText(r.Context(), lessons.TextInput{Text: body.Text, Meta: meta}))
	}
}

// validateResult reports the outcome of validating a script document.
type validateResult struct {
	Valid       bool           `json:"valid"`
	Problems    []string       `json:"problems,omitempty"`
	Events      int            `json:"events,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	DefaultPath []string       `json:"defaultPath,omitempty"`
}

func handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read body")
			return
		}
		if !json.Valid(raw) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res := validateDocument(raw)
		status := http.StatusOK
		if !res.Valid {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)
	}
}

// validateDocument runs the schema check, decodes the script and runs the
// structural checks. Every problem found is reported.
func validateDocument(raw []byte) validateResult {
	if err := script.ValidateJSON(raw); err != nil {
		return validateResult{Problems: []string{err.Error()}}
	}

	sc, err := script.Parse(raw)
	if err != nil {
		return validateResult{Problems: []string{err.Error()}}
	}

	if err := script.Validate(sc); err != nil {
		var verr *script.ValidationError
		if errors.As(err, &verr) {
			return validateResult{Problems: verr.Problems}
		}
		return validateResult{Problems: []string{err.Error()}}
	}

	res := validateResult{Valid: true, Events: len(sc.Events), Counts: map[string]int{}}
	for typ, n := range sc.Counts() {
		res.Counts[string(typ)] = n
	}
	if path, err := script.DefaultPath(sc); err == nil {
		res.DefaultPath = path
	}
	return res
}
