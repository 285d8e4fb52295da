package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/assistant"
)

// newRouter builds the chat API router.
func newRouter(a *assistant.Assistant) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/chat", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := a.ProcessTurn(req.Context(), body.SessionID, body.Message)
		if err != nil {
			zap.L().Error("turn failed",
				zap.String("session", body.SessionID),
				zap.Error(err),
			)
			writeJSONError(w, http.StatusInternalServerError, "turn failed")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/sessions/{id}/preferences", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		summary, diagnostics, ok := a.Preferences(id)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "unknown session")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id":  id,
			"summary":     summary,
			"diagnostics": diagnostics,
		})
	})

	r.Delete("/sessions/{id}/preferences", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if !a.ClearSession(id) {
			writeJSONError(w, http.StatusNotFound, "unknown session")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
