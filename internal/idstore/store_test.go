package idstore

import "testing"

func buildSample(t *testing.T) *Store {
	t.Helper()
	s := New()

	f := s.RegisterInputFile("run1.mzML")
	sw := s.RegisterProcessingSoftware("msfragger", "4.1")
	step, err := s.RegisterProcessingStep(sw, []InputFileRef{f}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SetCurrentProcessingStep(step)
	defer s.ClearCurrentProcessingStep()

	scoreType, err := s.RegisterScoreType("hyperscore", true)
	if err != nil {
		t.Fatal(err)
	}

	obs, err := s.RegisterObservation("scan=100", f)
	if err != nil {
		t.Fatal(err)
	}

	parent, err := s.RegisterParentSequence("P12345", MoleculeProtein, "PEPTIDEKPEPTIDE", 0, false)
	if err != nil {
		t.Fatal(err)
	}

	pep, err := s.RegisterIdentifiedPeptide("PEPTIDEK", map[ParentSequenceRef][]ParentMatch{
		parent: {{Start: 0, End: 8}},
	})
	if err != nil {
		t.Fatal(err)
	}

	match, err := s.RegisterObservationMatch(pep, obs, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AddScore(match, scoreType, 42.0); err != nil {
		t.Fatal(err)
	}

	return s
}

func TestRegistrationValidatesRefs(t *testing.T) {
	s := New()
	_, err := s.RegisterProcessingStep(SoftwareRef(99), nil, nil)
	if err == nil {
		t.Error("expected error for unknown software ref")
	}
}

func TestEmptyDataIDRejected(t *testing.T) {
	s := New()
	f := s.RegisterInputFile("a.mzML")
	_, err := s.RegisterObservation("", f)
	if err == nil {
		t.Error("expected error for empty data id")
	}
}

func TestCoverageOutOfRangeRejected(t *testing.T) {
	s := New()
	_, err := s.RegisterParentSequence("P1", MoleculeProtein, "SEQ", 1.5, false)
	if err == nil {
		t.Error("expected error for coverage > 1")
	}
	_, err = s.RegisterParentSequence("P1", MoleculeProtein, "SEQ", -0.1, false)
	if err == nil {
		t.Error("expected error for coverage < 0")
	}
}

func TestScoreTypeConflictingOrientationFails(t *testing.T) {
	s := New()
	if _, err := s.RegisterScoreType("q-value", false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RegisterScoreType("q-value", true); err == nil {
		t.Error("expected conflicting orientation to fail registration")
	}
	// Same orientation re-registration succeeds and returns the same ref.
	ref1, _ := s.RegisterScoreType("pep", true)
	ref2, _ := s.RegisterScoreType("pep", true)
	if ref1 != ref2 {
		t.Errorf("expected idempotent ref for same orientation, got %v and %v", ref1, ref2)
	}
}

func TestAddScoreRequiresProcessingStep(t *testing.T) {
	s := New()
	f := s.RegisterInputFile("a.mzML")
	obs, _ := s.RegisterObservation("scan=1", f)
	pep, _ := s.RegisterIdentifiedPeptide("PEP", nil)
	match, err := s.RegisterObservationMatch(pep, obs, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	st, _ := s.RegisterScoreType("score", true)
	if err := s.AddScore(match, st, 1.0); err == nil {
		t.Error("expected error adding score to match with no processing step")
	}
}

// TestMergeIdempotence implements §8 testable property 5: merging A into
// an empty store and then merging the result into A yields a store with
// twice the entity counts of A, with every translated ref resolving.
func TestMergeIdempotence(t *testing.T) {
	a := buildSample(t)
	aCounts := a.Counts()

	empty := New()
	translator := empty.Merge(a)
	if empty.Counts() != aCounts {
		t.Fatalf("merging into empty store should reproduce counts: got %+v want %+v", empty.Counts(), aCounts)
	}

	for oldRef, newRef := range translator.Match {
		if _, ok := a.Match(oldRef); !ok {
			continue
		}
		if _, ok := empty.Match(newRef); !ok {
			t.Errorf("translated match ref %v does not resolve in destination store", newRef)
		}
	}

	translator2 := a.Merge(empty)
	want := Counts{
		InputFiles:   aCounts.InputFiles * 2,
		Software:     aCounts.Software * 2,
		SearchParams: aCounts.SearchParams * 2,
		Steps:        aCounts.Steps * 2,
		ScoreTypes:   aCounts.ScoreTypes, // score types dedupe by name
		Observations: aCounts.Observations * 2,
		Parents:      aCounts.Parents * 2,
		Molecules:    aCounts.Molecules * 2,
		Adducts:      aCounts.Adducts * 2,
		Matches:      aCounts.Matches * 2,
		ParentGroups: aCounts.ParentGroups * 2,
		MatchGroups:  aCounts.MatchGroups * 2,
	}
	if a.Counts() != want {
		t.Errorf("after merging empty(=copy of A) into A: got %+v want %+v", a.Counts(), want)
	}

	for oldRef, newRef := range translator2.Match {
		if _, ok := empty.Match(oldRef); !ok {
			continue
		}
		if _, ok := a.Match(newRef); !ok {
			t.Errorf("translated match ref %v does not resolve after second merge", newRef)
		}
	}
}

func TestCalculateCoverageBounds(t *testing.T) {
	s := New()
	parent, err := s.RegisterParentSequence("P1", MoleculeProtein, "AAAAAAAAAA", 0, false) // length 10
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.RegisterIdentifiedPeptide("AAAAA", map[ParentSequenceRef][]ParentMatch{
		parent: {{Start: 0, End: 5}, {Start: 3, End: 8}},
	})
	if err != nil {
		t.Fatal(err)
	}

	s.CalculateCoverages(true)

	p, _ := s.ParentSequence(parent)
	if p.Coverage < 0 || p.Coverage > 1 {
		t.Fatalf("coverage out of bounds: %v", p.Coverage)
	}
	want := 8.0 / 10.0 // union of [0,5) and [3,8) is [0,8)
	if diff := p.Coverage - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("coverage = %v, want %v", p.Coverage, want)
	}
}

func TestGetBestMatchPerObservation(t *testing.T) {
	s := New()
	f := s.RegisterInputFile("a.mzML")
	sw := s.RegisterProcessingSoftware("tool", "1.0")
	step, _ := s.RegisterProcessingStep(sw, []InputFileRef{f}, nil)
	s.SetCurrentProcessingStep(step)
	st, _ := s.RegisterScoreType("score", true)

	obs, _ := s.RegisterObservation("scan=1", f)
	pep1, _ := s.RegisterIdentifiedPeptide("AAA", nil)
	pep2, _ := s.RegisterIdentifiedPeptide("BBB", nil)

	m1, _ := s.RegisterObservationMatch(pep1, obs, 1, nil)
	m2, _ := s.RegisterObservationMatch(pep2, obs, 1, nil)
	s.AddScore(m1, st, 10)
	s.AddScore(m2, st, 20)

	best := s.GetBestMatchPerObservation(st, true)
	if best[obs] != m2 {
		t.Errorf("expected higher-scoring match %v to win, got %v", m2, best[obs])
	}
}

func TestCleanupRequireObservationMatch(t *testing.T) {
	s := New()
	f := s.RegisterInputFile("a.mzML")
	obs, _ := s.RegisterObservation("scan=1", f)
	pep, _ := s.RegisterIdentifiedPeptide("AAA", nil)
	// No match registered for pep/obs -- both should be orphaned.
	s.Cleanup(CleanupFlags{RequireObservationMatch: true})

	if _, ok := s.Molecule(pep); ok {
		t.Error("expected unmatched molecule to be cleaned up")
	}
	if _, ok := s.Observation(obs); ok {
		t.Error("expected unmatched observation to be cleaned up")
	}
}
