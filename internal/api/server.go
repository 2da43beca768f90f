// Package api exposes a small read-only HTTP inspection surface over the
// identification data store: fetch a processing step, fetch an observation
// match, and run getBestMatchPerObservation. It is for debugging, not a
// UI — out of scope per the core's "GUI layers" non-goal.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/msplatform/mscore/internal/idstore"
)

// Server is the read-only inspection HTTP server.
type Server struct {
	router *mux.Router
	server *http.Server
	store  *idstore.Store
	index  *idstore.SearchIndex
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	EnableCORS bool
}

// NewServer creates an API server fronting store. index may be nil, in
// which case /search responds with 503.
func NewServer(cfg Config, store *idstore.Store, index *idstore.SearchIndex) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		index:  index,
	}

	s.setupRoutes()
	if cfg.EnableCORS {
		s.router.Use(corsMiddleware)
	}
	s.router.Use(loggingMiddleware)
	s.router.Use(jsonMiddleware)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/processing-steps/{ref}", s.handleGetProcessingStep).Methods("GET")
	api.HandleFunc("/observations/{ref}/best-match", s.handleBestMatchPerObservation).Methods("GET")
	api.HandleFunc("/matches/{ref}", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/parents/{ref}", s.handleGetParentSequence).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("starting inspection API on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes the search index.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("shutting down inspection API...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("error encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  status,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "mscore inspection API",
		"version":     "1.0.0",
		"description": "read-only view over the identification data store",
		"endpoints": map[string]string{
			"search":      "/api/v1/search",
			"stats":       "/api/v1/stats",
			"matches":     "/api/v1/matches/{ref}",
			"best_match":  "/api/v1/observations/{ref}/best-match",
			"health":      "/api/v1/health",
		},
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Counts())
}
