package nuxl

// Terminus selects which end of the peptide/oligo chain a modification
// attaches to.
type Terminus int

const (
	NTerm Terminus = iota
	CTerm
)

// ModificationRegistry is the process-wide, injected handle for
// registered N-/C-terminal modifications (§9 "global state... isolate
// them behind a singleton-like handle injected at core construction").
type ModificationRegistry struct {
	nterm map[string]FragmentAdduct
	cterm map[string]FragmentAdduct
}

// NewModificationRegistry creates an empty registry.
func NewModificationRegistry() *ModificationRegistry {
	return &ModificationRegistry{
		nterm: make(map[string]FragmentAdduct),
		cterm: make(map[string]FragmentAdduct),
	}
}

// Register adds a fragment adduct as a modification at the given
// terminus, idempotently: a name already present is left untouched
// (§4.5 "idempotent — skip if already present").
func (r *ModificationRegistry) Register(term Terminus, adduct FragmentAdduct) {
	table := r.nterm
	if term == CTerm {
		table = r.cterm
	}
	if _, ok := table[adduct.Name]; ok {
		return
	}
	table[adduct.Name] = adduct
}

// RegisterAll registers every fragment adduct as both an N-term and
// C-term modification, matching §4.5's "register each fragment-adduct
// name as N-term and C-term modifications."
func (r *ModificationRegistry) RegisterAll(adducts []FragmentAdduct) {
	for _, a := range adducts {
		r.Register(NTerm, a)
		r.Register(CTerm, a)
	}
}

// Lookup returns the registered modification by name and terminus.
func (r *ModificationRegistry) Lookup(term Terminus, name string) (FragmentAdduct, bool) {
	table := r.nterm
	if term == CTerm {
		table = r.cterm
	}
	a, ok := table[name]
	return a, ok
}

// Count reports how many distinct modifications are registered per
// terminus, for tests and diagnostics.
func (r *ModificationRegistry) Count(term Terminus) int {
	if term == CTerm {
		return len(r.cterm)
	}
	return len(r.nterm)
}
