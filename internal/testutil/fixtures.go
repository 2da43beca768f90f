package testutil

import (
	"github.com/msplatform/mscore/internal/idstore"
)

// Fixture data for tests.

// TestParentSequence returns a test protein sequence with sensible defaults.
func TestParentSequence() idstore.ParentSequence {
	return idstore.ParentSequence{
		Accession: "sp|P99999|TEST_HUMAN",
		Type:      idstore.MoleculeProtein,
		Sequence:  "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQAPILSRVGDGTQDNLSGAEKAVQVKVKALPDAQFEVVHSLAKWKRQTLGQHDFSAGEGLYTHMKALRPDEDRLSPLHSVYVDQWDWELVMGDRERP",
		Coverage:  0,
		Decoy:     false,
	}
}

// DecoyParentSequence returns a decoy-flagged parent sequence.
func DecoyParentSequence(accession string) idstore.ParentSequence {
	p := TestParentSequence()
	p.Accession = accession
	p.Decoy = true
	return p
}

// TestIdentifiedPeptide returns a test peptide with sensible defaults.
func TestIdentifiedPeptide() idstore.IdentifiedMolecule {
	return idstore.IdentifiedMolecule{
		Type:     idstore.MoleculeProtein,
		Sequence: "SAMPLER",
	}
}

// PeptideWithSequence returns a test peptide with a specific sequence.
func PeptideWithSequence(sequence string) idstore.IdentifiedMolecule {
	m := TestIdentifiedPeptide()
	m.Sequence = sequence
	return m
}

// TestInputFile returns a test input file reference.
func TestInputFile() idstore.InputFile {
	return idstore.InputFile{Name: "test_run_01.mzML"}
}

// TestSoftware returns a test processing-software descriptor.
func TestSoftware(name, version string) idstore.ProcessingSoftware {
	return idstore.ProcessingSoftware{Name: name, Version: version}
}

// TestScoreType returns a test score-type descriptor.
func TestScoreType(name string, higherBetter bool) idstore.ScoreType {
	return idstore.ScoreType{Name: name, HigherBetter: higherBetter}
}

// TestObservation returns a test observation referencing the given input file.
func TestObservation(dataID string, file idstore.InputFileRef) idstore.Observation {
	return idstore.Observation{DataID: dataID, InputFile: file}
}

// Score types commonly used in tests.
var (
	ScoreXCorr   = "xcorr"
	ScoreQValue  = "q-value"
	ScoreSVM     = "svm"
	ScoreExpect  = "expect"
)

// Software names commonly used in tests.
var (
	SoftwareMSFragger  = "MSFragger"
	SoftwarePercolator = "Percolator"
)
