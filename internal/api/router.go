// Package api exposes the analysis service over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/monitoring"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/storage"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/transcripts"
)

const maxBodyBytes = 32 << 20

// NewRouter wires the HTTP routes onto the analysis service
func NewRouter(service *monitoring.Service) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Run statistics and Prometheus metrics
	router.HandleFunc("/stats", statsHandler(service)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Ad hoc analysis of a posted transcript
	router.HandleFunc("/analyze", analyzeHandler(service)).Methods("POST")

	// Stored transcripts
	router.HandleFunc("/transcripts", listHandler(service)).Methods("GET")
	router.HandleFunc("/transcripts/{name:.+}/analyze", analyzeStoredHandler(service)).Methods("POST")
	router.HandleFunc("/transcripts/{name:.+}", uploadHandler(service)).Methods("PUT")
	router.HandleFunc("/transcripts/{name:.+}", deleteHandler(service)).Methods("DELETE")

	// Manual scan trigger
	router.HandleFunc("/scan", scanHandler(service)).Methods("POST")

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, monitoring.ErrInvalidTranscript), errors.Is(err, transcripts.ErrEmpty):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logrus.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Join(monitoring.ErrInvalidTranscript, err)
	}
	return data, nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func statsHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(service.GetMetrics()))
	}
}

// analyzeHandler accepts a transcript body; ?host= overrides host detection
func analyzeHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		messages, err := transcripts.Decode(bytes.NewReader(data))
		if err != nil {
			writeError(w, errors.Join(monitoring.ErrInvalidTranscript, err))
			return
		}

		run := service.AnalyzeMessages(r.Context(), "api", messages, r.URL.Query().Get("host"))
		writeJSON(w, http.StatusOK, run)
	}
}

func listHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := service.ListTranscripts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"transcripts": names})
	}
}

func uploadHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		data, err := readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		count, err := service.StoreTranscript(r.Context(), name, data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"name": name, "messages": count})
	}
}

func deleteHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeleteTranscript(r.Context(), mux.Vars(r)["name"]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// analyzeStoredHandler analyzes one stored transcript; ?notify=true also sends the digest
func analyzeStoredHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		run, err := service.AnalyzeTranscript(r.Context(), mux.Vars(r)["name"], query.Get("host"))
		if err != nil {
			writeError(w, err)
			return
		}

		if notify, _ := strconv.ParseBool(query.Get("notify")); notify {
			service.Deliver(run)
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func scanHandler(service *monitoring.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.RunScan(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
