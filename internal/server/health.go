package server

import (
	"context"
	"net/http"
	"time"

	"github.com/abhisek/lessonscript/internal/logging"
)

func handleHealth(logger *logging.Logger, db Pinger) http.HandlerFunc {
	type result struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]result{"server": {Status: "ok"}}
		status := http.StatusOK

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			checks["sqlite"] = result{Status: "ok"}
			if err := db.PingContext(ctx); err != nil {
				logger.Error("health check failed", "name", "sqlite", "error", err)
				checks["sqlite"] = result{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, checks)
	}
}
