package server

import (
	"net/http"

	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/retrieval"
)

// lessonBody is the request body of the lesson and chat routes.
type lessonBody struct {
	Topic            string   `json:"topic"`
	Grade            int      `json:"grade"`
	Board            string   `json:"board"`
	Subtopic         string   `json:"subtopic"`
	Message          string   `json:"message"`
	Language         string   `json:"language"`
	MethodPreference []string `json:"methodPreference"`
}

func (b lessonBody) request() retrieval.LessonRequest {
	return retrieval.LessonRequest{
		Topic:            b.Topic,
		Board:            b.Board,
		Grade:            b.Grade,
		Subtopic:         b.Subtopic,
		Message:          b.Message,
		Language:         b.Language,
		MethodPreference: b.MethodPreference,
	}
}

func handleGenerateLesson(logger *logging.Logger, svc LessonService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body lessonBody
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		sc, err := svc.Generate(r.Context(), body.request())
		if err != nil {
			writeFailure(w, logger, "Failed to generate lesson", err)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

func handleLearningPath(logger *logging.Logger, svc LessonService) http.HandlerFunc {
	type request struct {
		Topic           string   `json:"topic"`
		Grade           int      `json:"grade"`
		Board           string   `json:"board"`
		CurrentSubtopic string   `json:"currentSubtopic"`
		MasteryLevel    *float64 `json:"masteryLevel"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		path, err := svc.LearningPath(r.Context(), retrieval.PathRequest{
			Topic:           body.Topic,
			Board:           body.Board,
			Grade:           body.Grade,
			CurrentSubtopic: body.CurrentSubtopic,
			MasteryLevel:    body.MasteryLevel,
		})
		if err != nil {
			writeFailure(w, logger, "Failed to get learning path", err)
			return
		}
		writeJSON(w, http.StatusOK, path)
	}
}

func handleAdaptiveContent(logger *logging.Logger, svc LessonService) http.HandlerFunc {
	type request struct {
		Topic          string `json:"topic"`
		Grade          int    `json:"grade"`
		Board          string `json:"board"`
		Subtopic       string `json:"subtopic"`
		Language       string `json:"language"`
		AsLessonScript bool   `json:"asLessonScript"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		res, err := svc.Adaptive(r.Context(), retrieval.AdaptiveRequest{
			Topic:    body.Topic,
			Board:    body.Board,
			Grade:    body.Grade,
			Subtopic: body.Subtopic,
			Language: body.Language,
		}, body.AsLessonScript)
		if err != nil {
			writeFailure(w, logger, "Failed to get adaptive content", err)
			return
		}

		if res.Script != nil {
			writeJSON(w, http.StatusOK, res.Script)
			return
		}
		writeJSON(w, http.StatusOK, res.Content)
	}
}

func handleChat(logger *logging.Logger, svc LessonService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body lessonBody
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		resp, err := svc.Chat(r.Context(), body.request())
		if err != nil {
			writeFailure(w, logger, "Failed to get chat response", err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleChatToLesson(logger *logging.Logger, svc LessonService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body lessonBody
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		sc, err := svc.ChatToLesson(r.Context(), body.request())
		if err != nil {
			writeFailure(w, logger, "Failed to convert chat to lesson", err)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}
