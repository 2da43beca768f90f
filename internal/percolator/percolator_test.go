package percolator

import (
	"strings"
	"testing"
)

func sampleHits() []Hit {
	return []Hit{
		{FileIdentifier: "run1", ScanIdentifier: "100", PeptideSequence: "PEPTIDEK", PreAA: "K", PostAA: "A", Charge: 2, ExpMass: 900.1, CalcMass: 900.0, IsDecoy: false, HasDecoyAnnotation: true},
		{FileIdentifier: "run1", ScanIdentifier: "101", PeptideSequence: "SAMPLER", PreAA: "K", PostAA: "-", Charge: 3, ExpMass: 1100.2, CalcMass: 1100.1, IsDecoy: false, HasDecoyAnnotation: true},
		{FileIdentifier: "run1", ScanIdentifier: "102", PeptideSequence: "DECOYXX", PreAA: "-", PostAA: "K", Charge: 2, ExpMass: 800.0, CalcMass: 799.9, IsDecoy: true, HasDecoyAnnotation: true},
	}
}

func TestWritePINRequiresDecoy(t *testing.T) {
	hits := []Hit{
		{FileIdentifier: "run1", ScanIdentifier: "1", PeptideSequence: "AAAK", IsDecoy: false, HasDecoyAnnotation: true},
	}
	err := WritePIN(t.TempDir()+"/out.pin", hits, PINOptions{})
	if err == nil {
		t.Fatal("expected error when no decoys present")
	}
}

func TestBuildPINHeaderAndRowColumnCounts(t *testing.T) {
	hits := sampleHits()
	chargeMin, chargeMax := chargeRange(hits)
	header := BuildPINHeader(chargeMin, chargeMax, []string{"extraFeat"})
	row := BuildPINRow(hits[0], chargeMin, chargeMax, 1, []float64{0.5})
	if len(header) != len(row) {
		t.Fatalf("header/row column count mismatch: header=%d row=%d", len(header), len(row))
	}
}

func TestPeptideStringRoundTrip(t *testing.T) {
	h := Hit{PeptideSequence: "PEPTIDEK", PreAA: "-", PostAA: "-"}
	s := h.PeptideString()
	if s != "[.PEPTIDEK.]" {
		t.Fatalf("unexpected peptide string: %s", s)
	}
	pre, post, seq := splitPeptideString(s)
	if pre != "-" || post != "-" || seq != "PEPTIDEK" {
		t.Fatalf("round trip mismatch: pre=%q post=%q seq=%q", pre, post, seq)
	}
}

func TestParsePoutKeepsFirstOnCollision(t *testing.T) {
	tsv := "PSMId\tscore\tq-value\tposterior_error_prob\tpeptide\tproteins\n" +
		"p1\t5.0\t0.01\t0.02\tK.PEPTIDEK.A\tprotA\n" +
		"p1\t9.9\t0.9\t0.9\tK.PEPTIDEK.A\tprotB\n"
	recs, err := ParsePout(strings.NewReader(tsv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, ok := recs["p1"]
	if !ok {
		t.Fatal("expected record for p1")
	}
	if rec.Score != 5.0 {
		t.Fatalf("expected first row to win on collision, got score %v", rec.Score)
	}
}

// TestReintegrateMissedPSM exercises scenario S5: 3 PSMs in, Percolator
// retains 2, the missed PSM gets SVM=-100, q=1, PEP=1 and a score-type
// consistent main-score sentinel.
func TestReintegrateMissedPSM(t *testing.T) {
	hits := []Hit{
		{FileIdentifier: "run1", ScanIdentifier: "100", PeptideSequence: "PEPTIDEK"},
		{FileIdentifier: "run1", ScanIdentifier: "101", PeptideSequence: "SAMPLER"},
		{FileIdentifier: "run1", ScanIdentifier: "102", PeptideSequence: "DECOYXX"},
	}
	pout := map[string]PoutRecord{
		hits[0].PSMId(): {PSMId: hits[0].PSMId(), Score: 3.5, QValue: 0.01, PEP: 0.02},
		hits[1].PSMId(): {PSMId: hits[1].PSMId(), Score: 2.1, QValue: 0.03, PEP: 0.05},
	}

	t.Run("q-value score type", func(t *testing.T) {
		h := append([]Hit(nil), hits...)
		Reintegrate(h, pout, ScoreQValue)
		if h[2].Retained {
			t.Fatal("third PSM should not be retained")
		}
		if h[2].SVMScore != missSVMScore || h[2].QValue != missQValue || h[2].PEP != missPEP {
			t.Fatalf("unexpected sentinel values: %+v", h[2])
		}
		if h[2].MainScore != 1.0 || h[2].HigherBetter {
			t.Fatalf("expected main score 1.0 lower-is-better for q-value miss, got %+v", h[2])
		}
		if !h[0].Retained || h[0].MainScore != 0.01 {
			t.Fatalf("expected first PSM retained with q-value main score, got %+v", h[0])
		}
	})

	t.Run("svm score type", func(t *testing.T) {
		h := append([]Hit(nil), hits...)
		Reintegrate(h, pout, ScoreSVM)
		if h[2].MainScore != -100.0 || !h[2].HigherBetter {
			t.Fatalf("expected main score -100 higher-is-better for svm miss, got %+v", h[2])
		}
		if h[0].MainScore != 3.5 {
			t.Fatalf("expected retained PSM main score to equal SVM score, got %+v", h[0])
		}
	})
}

func TestRebuildProteinGroupsFiltersAbsentMembers(t *testing.T) {
	original := []ProteinHit{{Accession: "P1"}, {Accession: "P2"}}
	pout := map[string]ProteinPoutRecord{
		"P1": {Accession: "P1", QValue: 0.01, PEP: 0.02},
		"P3": {Accession: "P3", QValue: 0.5, PEP: 0.5},
	}
	groups := []ProteinGroup{{Members: []string{"P1", "P2"}}}

	rebuilt, newGroups, warnings := RebuildProteinGroups(original, pout, groups)

	if len(rebuilt) != 2 || !rebuilt[0].HasScores {
		t.Fatalf("expected P1 to carry scores: %+v", rebuilt)
	}
	if len(newGroups) != 1 || len(newGroups[0].Members) != 2 {
		t.Fatalf("expected group to keep both present members, got %+v", newGroups)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "P3") {
		t.Fatalf("expected warning about unknown reported protein P3, got %+v", warnings)
	}
}

func TestValidateSharedRunRejectsDifferentSearchEngines(t *testing.T) {
	runs := []RunMetadata{
		{SearchEngine: "Comet"},
		{SearchEngine: "MSGFPlus"},
	}
	if _, err := ValidateSharedRun(runs); err == nil {
		t.Fatal("expected error for differing search engines")
	}
}

func TestValidateSharedRunWarnsOnDifferingEnzyme(t *testing.T) {
	runs := []RunMetadata{
		{SearchEngine: "Comet", Enzyme: "Trypsin"},
		{SearchEngine: "Comet", Enzyme: "Chymotrypsin"},
	}
	warnings, err := ValidateSharedRun(runs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestBuildArgsAppliesThreadFloor(t *testing.T) {
	args := BuildArgs(InvokeOptions{PINPath: "in.pin", PoutPath: "out.pout", NumThreads: 0})
	found := false
	for i, a := range args {
		if a == "--num-threads" && i+1 < len(args) && args[i+1] == "1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected thread count floored to 1, got args %v", args)
	}
}
