package idstore

import (
	"strconv"

	"github.com/blevesearch/bleve/v2"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// searchDoc is the bleve document shape indexed for parent sequences and
// identified molecules, grounded on the teacher's internal/search
// (bleve.go) document-mapping style.
type searchDoc struct {
	Kind      string // "parent" or "molecule"
	Ref       int
	Accession string
	Sequence  string
}

// SearchIndex is an optional secondary full-text index over a store's
// parent sequences and identified molecules (accession, sequence text).
// It is strictly additive: every correctness-bearing lookup in the store
// goes through the reference-indexed arena tables, never through this
// index.
type SearchIndex struct {
	index bleve.Index
}

// NewSearchIndex builds an in-memory bleve index (grounded on the
// teacher's internal/search/bleve.go NewIndexMapping/New pattern) and
// indexes every parent sequence and identified molecule currently in s.
func NewSearchIndex(s *Store) (*SearchIndex, error) {
	const op = apperrors.Op("idstore.NewSearchIndex")
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, apperrors.WrapMsg(op, "creating bleve index", err)
	}

	si := &SearchIndex{index: index}
	for ref, p := range s.parents {
		doc := searchDoc{Kind: "parent", Ref: ref, Accession: p.Accession, Sequence: p.Sequence}
		if err := index.Index(docID("parent", ref), doc); err != nil {
			return nil, apperrors.WrapMsg(op, "indexing parent sequence", err)
		}
	}
	for ref, m := range s.molecules {
		doc := searchDoc{Kind: "molecule", Ref: ref, Sequence: m.Sequence}
		if err := index.Index(docID("molecule", ref), doc); err != nil {
			return nil, apperrors.WrapMsg(op, "indexing identified molecule", err)
		}
	}
	return si, nil
}

func docID(kind string, ref int) string {
	return kind + ":" + strconv.Itoa(ref)
}

// SearchResult names the kind and ref of a matched entity, for the
// caller to resolve back through Store.ParentSequence / Store.Molecule.
type SearchResult struct {
	Kind string
	Ref  int
}

// Search runs a free-text query across accession and sequence fields.
func (si *SearchIndex) Search(query string) ([]SearchResult, error) {
	const op = apperrors.Op("idstore.SearchIndex.Search")
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequest(q)
	result, err := si.index.Search(req)
	if err != nil {
		return nil, apperrors.WrapMsg(op, "running search", err)
	}
	out := make([]SearchResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		kind, refStr, ok := splitDocID(hit.ID)
		if !ok {
			continue
		}
		ref, err := strconv.Atoi(refStr)
		if err != nil {
			continue
		}
		out = append(out, SearchResult{Kind: kind, Ref: ref})
	}
	return out, nil
}

func splitDocID(id string) (kind, ref string, ok bool) {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			return id[:i], id[i+1:], true
		}
	}
	return "", "", false
}

// Close releases the underlying bleve index.
func (si *SearchIndex) Close() error {
	return si.index.Close()
}
