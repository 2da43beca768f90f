package percolator

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// PoutRecord is one parsed Percolator output row: PSMId -> (score, q,
// PEP, peptide, flanks, proteins) (§4.6 post-processing step 1).
type PoutRecord struct {
	PSMId    string
	Score    float64
	QValue   float64
	PEP      float64
	Peptide  string
	PreAA    string
	PostAA   string
	Proteins []string
}

// ParsePout parses a Percolator pout TSV (header: PSMId, score, q-value,
// posterior_error_prob, peptide, proteins...) into a PSMId -> record map.
// If multiple rows share a PSMId + peptide, the first is kept (§4.6 post-
// processing step 1; §9 documents this as a known PSMId-collision
// limitation).
func ParsePout(r io.Reader) (map[string]PoutRecord, error) {
	const op = apperrors.Op("percolator.ParsePout")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return map[string]PoutRecord{}, nil
	}
	header := strings.Split(scanner.Text(), "\t")
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	required := []string{"PSMId", "score", "q-value", "posterior_error_prob", "peptide"}
	for _, c := range required {
		if _, ok := col[c]; !ok {
			return nil, apperrors.E(op, apperrors.KindParse, "missing required pout column: "+c)
		}
	}

	seen := map[string]bool{} // key = PSMId + peptide
	out := map[string]PoutRecord{}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= col["peptide"] {
			continue
		}
		psmID := fields[col["PSMId"]]
		peptide := fields[col["peptide"]]
		key := psmID + peptide
		if seen[key] {
			continue
		}
		seen[key] = true

		score, err := strconv.ParseFloat(fields[col["score"]], 64)
		if err != nil {
			return nil, apperrors.WrapMsg(op, "parsing score", err)
		}
		q, err := strconv.ParseFloat(fields[col["q-value"]], 64)
		if err != nil {
			return nil, apperrors.WrapMsg(op, "parsing q-value", err)
		}
		pep, err := strconv.ParseFloat(fields[col["posterior_error_prob"]], 64)
		if err != nil {
			return nil, apperrors.WrapMsg(op, "parsing PEP", err)
		}

		pre, post, seq := splitPeptideString(peptide)

		var proteins []string
		proteinsIdx, hasProteins := col["proteins"]
		if hasProteins && proteinsIdx < len(fields) {
			proteins = fields[proteinsIdx:]
		}

		out[psmID] = PoutRecord{
			PSMId:    psmID,
			Score:    score,
			QValue:   q,
			PEP:      pep,
			Peptide:  seq,
			PreAA:    pre,
			PostAA:   post,
			Proteins: proteins,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapMsg(op, "scanning pout", err)
	}
	return out, nil
}

// splitPeptideString reverses PeptideString's encoding:
// preAA.SEQUENCE.postAA, '[' / ']' denoting terminal flanks.
func splitPeptideString(s string) (pre, post, seq string) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return "", "", s
	}
	pre, seq, post = parts[0], parts[1], parts[2]
	if pre == "[" {
		pre = "-"
	}
	if post == "]" {
		post = "-"
	}
	return pre, post, seq
}

// ProteinPoutRecord is one parsed protein-level output row (§4.6
// post-processing step 4).
type ProteinPoutRecord struct {
	Accession string
	QValue    float64
	PEP       float64
}

// ParseProteinPout parses the protein-level Percolator output
// (header: ProteinId, q-value, posterior_error_prob, ...).
func ParseProteinPout(r io.Reader) (map[string]ProteinPoutRecord, error) {
	const op = apperrors.Op("percolator.ParseProteinPout")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return map[string]ProteinPoutRecord{}, nil
	}
	header := strings.Split(scanner.Text(), "\t")
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, c := range []string{"ProteinId", "q-value", "posterior_error_prob"} {
		if _, ok := col[c]; !ok {
			return nil, apperrors.E(op, apperrors.KindParse, "missing required protein pout column: "+c)
		}
	}

	out := map[string]ProteinPoutRecord{}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= col["posterior_error_prob"] {
			continue
		}
		accession := fields[col["ProteinId"]]
		q, err := strconv.ParseFloat(fields[col["q-value"]], 64)
		if err != nil {
			return nil, apperrors.WrapMsg(op, "parsing protein q-value", err)
		}
		pep, err := strconv.ParseFloat(fields[col["posterior_error_prob"]], 64)
		if err != nil {
			return nil, apperrors.WrapMsg(op, "parsing protein PEP", err)
		}
		out[accession] = ProteinPoutRecord{Accession: accession, QValue: q, PEP: pep}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.WrapMsg(op, "scanning protein pout", err)
	}
	return out, nil
}
