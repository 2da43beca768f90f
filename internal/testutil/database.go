package testutil

import (
	"path/filepath"
	"testing"

	"github.com/msplatform/mscore/internal/idstore"
)

// TestStore builds an in-memory identification data store populated with
// fixture parent sequences, peptides, and processing steps.
func TestStore(t *testing.T) *idstore.Store {
	t.Helper()

	s := idstore.New()
	file := s.RegisterInputFile(TestInputFile().Name)
	software := s.RegisterProcessingSoftware(SoftwareMSFragger, "3.8")
	step, err := s.RegisterProcessingStep(software, []idstore.InputFileRef{file}, nil)
	if err != nil {
		t.Fatalf("failed to register processing step: %v", err)
	}
	scoreType, err := s.RegisterScoreType(ScoreXCorr, true)
	if err != nil {
		t.Fatalf("failed to register score type: %v", err)
	}

	parentFixture := TestParentSequence()
	parent, err := s.RegisterParentSequence(parentFixture.Accession, parentFixture.Type, parentFixture.Sequence, parentFixture.Coverage, parentFixture.Decoy)
	if err != nil {
		t.Fatalf("failed to register parent sequence: %v", err)
	}

	peptideFixture := TestIdentifiedPeptide()
	molecule, err := s.RegisterIdentifiedPeptide(peptideFixture.Sequence, map[idstore.ParentSequenceRef][]idstore.ParentMatch{
		parent: {{Start: 10, End: 17}},
	})
	if err != nil {
		t.Fatalf("failed to register peptide: %v", err)
	}

	obs, err := s.RegisterObservation("scan=1001", file)
	if err != nil {
		t.Fatalf("failed to register observation: %v", err)
	}

	s.SetCurrentProcessingStep(step)
	match, err := s.RegisterObservationMatch(molecule, obs, 2, nil)
	if err != nil {
		t.Fatalf("failed to register observation match: %v", err)
	}
	if err := s.AddScore(match, scoreType, 2.5); err != nil {
		t.Fatalf("failed to add score: %v", err)
	}

	return s
}

// TestSnapshot writes a fixture store to a temporary SQLite snapshot and
// returns its path alongside a cleanup function.
func TestSnapshot(t *testing.T) (string, func()) {
	t.Helper()

	dir, cleanup := TempDir(t)
	path := filepath.Join(dir, "test.db")

	s := TestStore(t)
	if err := s.SnapshotTo(path); err != nil {
		cleanup()
		t.Fatalf("failed to write test snapshot: %v", err)
	}

	return path, cleanup
}
