package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/lessonscript/internal/logging"
	"github.com/abhisek/lessonscript/internal/retrieval"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps a lesson service error: invalid requests are 400,
// everything else is a 500 carrying msg and the failure details.
func writeFailure(w http.ResponseWriter, log *logging.Logger, msg string, err error) {
	if errors.Is(err, retrieval.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details := err.Error()
	var gf *retrieval.GenerationFailedError
	if errors.As(err, &gf) {
		details = gf.Details()
	}
	log.Error(msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   msg,
		"details": details,
	})
}
