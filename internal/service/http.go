package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hopsmith/brewwater/internal/catalog"
)

// Handler returns the HTTP surface of the service: the report endpoint,
// the catalog listings, and a health check. The caller mounts middleware
// and the prometheus endpoint around it.
func (s *ReportService) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/report", s.handleReport)

	mux.HandleFunc("GET /api/v1/catalog/salts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Salts())
	})
	mux.HandleFunc("GET /api/v1/catalog/acids", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Acids())
	})
	mux.HandleFunc("GET /api/v1/catalog/grains", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Grains())
	})
	mux.HandleFunc("GET /api/v1/catalog/waters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.Waters())
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

func (s *ReportService) handleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	report, err := s.BuildReport(r.Context(), req)
	if err != nil {
		// BuildReport only fails on structurally invalid requests; anything
		// recoverable is a diagnostic on the report instead.
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Warn("request rejected", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
