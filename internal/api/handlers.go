package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/msplatform/mscore/internal/idstore"
)

func refParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.writeError(w, http.StatusServiceUnavailable, "search index not enabled")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter 'q'")
		return
	}
	results, err := s.index.Search(query)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetProcessingStep(w http.ResponseWriter, r *http.Request) {
	ref, err := refParam(r, "ref")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid ref")
		return
	}
	step, ok := s.store.ProcessingStep(idstore.ProcessingStepRef(ref))
	if !ok {
		s.writeError(w, http.StatusNotFound, "processing step not found")
		return
	}
	s.writeJSON(w, http.StatusOK, step)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	ref, err := refParam(r, "ref")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid ref")
		return
	}
	match, ok := s.store.Match(idstore.ObservationMatchRef(ref))
	if !ok {
		s.writeError(w, http.StatusNotFound, "observation match not found")
		return
	}
	s.writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleGetParentSequence(w http.ResponseWriter, r *http.Request) {
	ref, err := refParam(r, "ref")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid ref")
		return
	}
	parent, ok := s.store.ParentSequence(idstore.ParentSequenceRef(ref))
	if !ok {
		s.writeError(w, http.StatusNotFound, "parent sequence not found")
		return
	}
	s.writeJSON(w, http.StatusOK, parent)
}

// handleBestMatchPerObservation runs getBestMatchPerObservation across
// the whole store and reports the winner for the requested observation,
// keyed by the score_type query parameter (a score type ref).
func (s *Server) handleBestMatchPerObservation(w http.ResponseWriter, r *http.Request) {
	obsRef, err := refParam(r, "ref")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid ref")
		return
	}
	scoreRefStr := r.URL.Query().Get("score_type")
	scoreRef, err := strconv.Atoi(scoreRefStr)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid or missing score_type query parameter")
		return
	}
	requireScore := r.URL.Query().Get("require_score") == "true"

	best := s.store.GetBestMatchPerObservation(idstore.ScoreTypeRef(scoreRef), requireScore)
	matchRef, ok := best[idstore.ObservationRef(obsRef)]
	if !ok {
		s.writeError(w, http.StatusNotFound, "no best match for observation")
		return
	}
	match, ok := s.store.Match(matchRef)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "best match ref no longer valid")
		return
	}
	s.writeJSON(w, http.StatusOK, match)
}
