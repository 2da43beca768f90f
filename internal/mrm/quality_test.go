package mrm

import "testing"

// TestOutlierIndexAgreement covers §4.1.3: when the min-shape and
// max-coelution chromatograms coincide, that one is flagged.
func TestOutlierIndexAgreement(t *testing.T) {
	shapes := []float64{0.9, 0.2, 0.8}
	coels := []float64{1.0, 3.0, 1.5}
	idx := outlierIndex(shapes, coels)
	if idx != 1 {
		t.Fatalf("expected outlier index 1 (min shape and max coel agree), got %d", idx)
	}
}

// TestOutlierIndexDisagreement covers §4.1.3: when the min-shape and
// max-coelution chromatograms differ, no outlier is flagged.
func TestOutlierIndexDisagreement(t *testing.T) {
	shapes := []float64{0.9, 0.2, 0.8}
	coels := []float64{3.0, 1.0, 1.5}
	idx := outlierIndex(shapes, coels)
	if idx != -1 {
		t.Fatalf("expected no outlier when min-shape and max-coel disagree, got %d", idx)
	}
}

func TestOutlierIndexEmpty(t *testing.T) {
	if idx := outlierIndex(nil, nil); idx != -1 {
		t.Fatalf("expected -1 for empty input, got %d", idx)
	}
}
