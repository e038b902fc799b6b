package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/lessonscript/internal/logging"
)

func addRoutes(r chi.Router, logger *logging.Logger, deps Deps) {
	r.Get("/healthz", handleHealth(logger, deps.DB))

	r.Route("/api/rag", func(r chi.Router) {
		r.Use(limitBody(deps.MaxBodyBytes))
		r.Post("/generate-lesson", handleGenerateLesson(logger, deps.Lessons))
		r.Post("/learning-path", handleLearningPath(logger, deps.Lessons))
		r.Post("/adaptive-content", handleAdaptiveContent(logger, deps.Lessons))
		r.Post("/chat", handleChat(logger, deps.Lessons))
		r.Post("/chat-to-lesson", handleChatToLesson(logger, deps.Lessons))
	})

	r.Route("/api/lessons", func(r chi.Router) {
		r.With(limitBody(deps.MaxBodyBytes)).Post("/compile", handleCompile(deps.Lessons))
		r.With(limitBody(deps.MaxBodyBytes)).Post("/validate", handleValidate())
		r.Get("/play", handlePlay(logger, deps))
	})
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
