package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"cppquiz-service/internal/analytics"
	"cppquiz-service/internal/quiz"
)

const defaultLeaderboardLimit = 10

// Handler serves the reporting REST surface next to the websocket quiz flow.
type Handler struct {
	service *quiz.Service
}

func NewHandler(service *quiz.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts all routes, websocket included, on the mux.
func Register(mux *http.ServeMux, service *quiz.Service) {
	h := NewHandler(service)
	ws := NewWSHandler(service)

	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/leaderboard", h.Leaderboard)
	mux.HandleFunc("/analytics", h.Analytics)
	mux.HandleFunc("/results", h.Results)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Printf("leaderboard query failed: %v", err)
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	results, err := h.service.Results(r.Context())
	if err != nil {
		log.Printf("analytics query failed: %v", err)
		http.Error(w, "analytics unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, analytics.Calculate(results, time.Now()))
}

// Results serves the raw result log. GET lists results, optionally filtered by
// regNumber; DELETE wipes the log (admin reset).
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var err error
		var payload interface{}
		if reg := r.URL.Query().Get("regNumber"); reg != "" {
			payload, err = h.service.StudentResults(r.Context(), reg)
		} else {
			payload, err = h.service.Results(r.Context())
		}
		if err != nil {
			log.Printf("results query failed: %v", err)
			http.Error(w, "results unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, payload)
	case http.MethodDelete:
		if err := h.service.ClearResults(r.Context()); err != nil {
			log.Printf("clear results failed: %v", err)
			http.Error(w, "clear failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
