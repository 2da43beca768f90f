package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msplatform/mscore/internal/idstore"
)

func setupTestServer() *Server {
	s := idstore.New()
	file := s.RegisterInputFile("test.mzML")
	software := s.RegisterProcessingSoftware("MSFragger", "3.8")
	step, _ := s.RegisterProcessingStep(software, []idstore.InputFileRef{file}, nil)
	scoreType, _ := s.RegisterScoreType("xcorr", true)

	parent, _ := s.RegisterParentSequence("sp|P00000|TEST", idstore.MoleculeProtein, "MKTAYIAK", 0, false)
	molecule, _ := s.RegisterIdentifiedPeptide("MKTAYIAK", map[idstore.ParentSequenceRef][]idstore.ParentMatch{
		parent: {{Start: 0, End: 8}},
	})
	obs, _ := s.RegisterObservation("scan=1", file)

	s.SetCurrentProcessingStep(step)
	match, _ := s.RegisterObservationMatch(molecule, obs, 2, nil)
	s.AddScore(match, scoreType, 3.1)

	return NewServer(Config{Host: "localhost", Port: 0}, s, nil)
}

func TestHandleGetMatch(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/matches/0", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var match idstore.ObservationMatch
	if err := json.Unmarshal(w.Body.Bytes(), &match); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if match.Charge != 2 {
		t.Errorf("expected charge 2, got %d", match.Charge)
	}
}

func TestHandleGetMatchNotFound(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/matches/999", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleGetParentSequence(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/parents/0", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var parent idstore.ParentSequence
	if err := json.Unmarshal(w.Body.Bytes(), &parent); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if parent.Accession != "sp|P00000|TEST" {
		t.Errorf("expected accession sp|P00000|TEST, got %q", parent.Accession)
	}
}

func TestHandleSearchWithoutIndex(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/search?q=TEST", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when search index is nil, got %d", w.Code)
	}
}

func TestHandleBestMatchPerObservation(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/observations/0/best-match?score_type=0&require_score=true", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleStats(t *testing.T) {
	server := setupTestServer()

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var counts idstore.Counts
	if err := json.Unmarshal(w.Body.Bytes(), &counts); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if counts.Molecules != 1 {
		t.Errorf("expected 1 identified molecule, got %d", counts.Molecules)
	}
}
