package idstore

import (
	apperrors "github.com/msplatform/mscore/internal/errors"
)

// Store is the arena-backed identification data store. All tables are
// slice-indexed by their Ref type; address sets give O(1) existence
// checks for reference validation (§9).
type Store struct {
	inputFiles   []InputFile
	software     []ProcessingSoftware
	searchParams []DBSearchParam
	steps        []ProcessingStep
	scoreTypes   []ScoreType
	scoreTypeIdx map[string]ScoreTypeRef // name -> ref, for the reorientation check

	observations []Observation
	parents      []ParentSequence
	molecules    []IdentifiedMolecule
	adducts      []Adduct
	matches      []ObservationMatch
	parentGroups []ParentGroupSet
	matchGroups  []ObservationMatchGroup

	// address sets, per §9 "tracked in address look-up sets for existence
	// validation"; Cleanup deletes pruned refs from them, and Merge adds to
	// them through the register calls.
	inputFileSet map[InputFileRef]struct{}
	parentSet    map[ParentSequenceRef]struct{}
	moleculeSet  map[IdentifiedMoleculeRef]struct{}
	observaSet   map[ObservationRef]struct{}
	matchSet     map[ObservationMatchRef]struct{}

	currentStep    ProcessingStepRef
	hasCurrentStep bool

	noChecks bool // disabled during Merge, per §4.4 "no_checks_ is true during merge"
}

// New creates an empty identification data store.
func New() *Store {
	return &Store{
		scoreTypeIdx: make(map[string]ScoreTypeRef),
		inputFileSet: make(map[InputFileRef]struct{}),
		parentSet:    make(map[ParentSequenceRef]struct{}),
		moleculeSet:  make(map[IdentifiedMoleculeRef]struct{}),
		observaSet:   make(map[ObservationRef]struct{}),
		matchSet:     make(map[ObservationMatchRef]struct{}),
	}
}

// SetCurrentProcessingStep arms automatic step inheritance: entities
// registered afterward that don't already carry a step get this one.
func (s *Store) SetCurrentProcessingStep(step ProcessingStepRef) {
	s.currentStep = step
	s.hasCurrentStep = true
}

// ClearCurrentProcessingStep disarms automatic step inheritance.
func (s *Store) ClearCurrentProcessingStep() {
	s.hasCurrentStep = false
}

func (s *Store) inheritStep(existing []StepScores) []StepScores {
	if !s.hasCurrentStep {
		return existing
	}
	for _, ss := range existing {
		if ss.Step == s.currentStep {
			return existing
		}
	}
	return append(existing, StepScores{Step: s.currentStep, Scores: make(map[ScoreTypeRef]float64)})
}

// RegisterInputFile adds an input file and returns its stable reference.
func (s *Store) RegisterInputFile(name string) InputFileRef {
	ref := InputFileRef(len(s.inputFiles))
	s.inputFiles = append(s.inputFiles, InputFile{Name: name})
	s.inputFileSet[ref] = struct{}{}
	return ref
}

// RegisterProcessingSoftware adds a software descriptor.
func (s *Store) RegisterProcessingSoftware(name, version string) SoftwareRef {
	ref := SoftwareRef(len(s.software))
	s.software = append(s.software, ProcessingSoftware{Name: name, Version: version})
	return ref
}

// RegisterDBSearchParam adds a search-parameter block.
func (s *Store) RegisterDBSearchParam(params map[string]string) DBSearchParamRef {
	ref := DBSearchParamRef(len(s.searchParams))
	s.searchParams = append(s.searchParams, DBSearchParam{Params: params})
	return ref
}

// RegisterProcessingStep adds a processing step, validating the software
// and input-file references.
func (s *Store) RegisterProcessingStep(software SoftwareRef, inputFiles []InputFileRef, searchParam *DBSearchParamRef) (ProcessingStepRef, error) {
	if !s.noChecks {
		if int(software) < 0 || int(software) >= len(s.software) {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterProcessingStep"), apperrors.KindIllegalArgument, "unknown software ref")
		}
		for _, f := range inputFiles {
			if _, ok := s.inputFileSet[f]; !ok {
				return 0, apperrors.E(apperrors.Op("idstore.RegisterProcessingStep"), apperrors.KindIllegalArgument, "unknown input file ref")
			}
		}
		if searchParam != nil && (int(*searchParam) < 0 || int(*searchParam) >= len(s.searchParams)) {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterProcessingStep"), apperrors.KindIllegalArgument, "unknown search param ref")
		}
	}
	step := ProcessingStep{Software: software, InputFiles: inputFiles, SearchParam: invalidRef}
	if searchParam != nil {
		step.SearchParam = *searchParam
		step.HasSearchParam = true
	}
	ref := ProcessingStepRef(len(s.steps))
	s.steps = append(s.steps, step)
	return ref, nil
}

// RegisterScoreType adds a score type, or validates that an existing
// registration of the same name has the same higher-better orientation.
func (s *Store) RegisterScoreType(name string, higherBetter bool) (ScoreTypeRef, error) {
	if existing, ok := s.scoreTypeIdx[name]; ok {
		if s.scoreTypes[existing].HigherBetter != higherBetter {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterScoreType"), apperrors.KindIllegalArgument,
				"score type "+name+" already registered with conflicting orientation")
		}
		return existing, nil
	}
	ref := ScoreTypeRef(len(s.scoreTypes))
	s.scoreTypes = append(s.scoreTypes, ScoreType{Name: name, HigherBetter: higherBetter})
	s.scoreTypeIdx[name] = ref
	return ref, nil
}

// RegisterObservation adds a spectrum/feature observation, requiring a
// non-empty native data id and a valid input-file reference.
func (s *Store) RegisterObservation(dataID string, inputFile InputFileRef) (ObservationRef, error) {
	if dataID == "" {
		return 0, apperrors.E(apperrors.Op("idstore.RegisterObservation"), apperrors.KindInvalidValue, "empty data id")
	}
	if !s.noChecks {
		if _, ok := s.inputFileSet[inputFile]; !ok {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterObservation"), apperrors.KindIllegalArgument, "unknown input file ref")
		}
	}
	ref := ObservationRef(len(s.observations))
	s.observations = append(s.observations, Observation{DataID: dataID, InputFile: inputFile})
	s.observaSet[ref] = struct{}{}
	return ref, nil
}

// RegisterParentSequence adds a protein/nucleic-acid reference sequence.
// Coverage is validated against [0,1].
func (s *Store) RegisterParentSequence(accession string, typ MoleculeType, sequence string, coverage float64, decoy bool) (ParentSequenceRef, error) {
	if coverage < 0 || coverage > 1 {
		return 0, apperrors.E(apperrors.Op("idstore.RegisterParentSequence"), apperrors.KindInvalidValue, "coverage out of [0,1]")
	}
	ref := ParentSequenceRef(len(s.parents))
	s.parents = append(s.parents, ParentSequence{
		Accession: accession, Type: typ, Sequence: sequence, Coverage: coverage, Decoy: decoy,
		ProcessSteps: s.inheritStep(nil),
	})
	s.parentSet[ref] = struct{}{}
	return ref, nil
}

func (s *Store) validateParentMatches(pm map[ParentSequenceRef][]ParentMatch) error {
	if s.noChecks {
		return nil
	}
	for ref := range pm {
		if _, ok := s.parentSet[ref]; !ok {
			return apperrors.E(apperrors.Op("idstore.registerMolecule"), apperrors.KindIllegalArgument, "unknown parent sequence ref")
		}
	}
	return nil
}

// RegisterIdentifiedPeptide adds an identified peptide linked to zero or
// more parent sequences via parent matches.
func (s *Store) RegisterIdentifiedPeptide(sequence string, parentMatch map[ParentSequenceRef][]ParentMatch) (IdentifiedMoleculeRef, error) {
	return s.registerMolecule(MoleculeProtein, sequence, parentMatch)
}

// RegisterIdentifiedCompound adds an identified small-molecule compound.
func (s *Store) RegisterIdentifiedCompound(identifier string, parentMatch map[ParentSequenceRef][]ParentMatch) (IdentifiedMoleculeRef, error) {
	return s.registerMolecule(MoleculeCompound, identifier, parentMatch)
}

// RegisterIdentifiedOligo adds an identified oligonucleotide.
func (s *Store) RegisterIdentifiedOligo(sequence string, parentMatch map[ParentSequenceRef][]ParentMatch) (IdentifiedMoleculeRef, error) {
	return s.registerMolecule(MoleculeRNA, sequence, parentMatch)
}

func (s *Store) registerMolecule(typ MoleculeType, sequence string, parentMatch map[ParentSequenceRef][]ParentMatch) (IdentifiedMoleculeRef, error) {
	if err := s.validateParentMatches(parentMatch); err != nil {
		return 0, err
	}
	if parentMatch == nil {
		parentMatch = make(map[ParentSequenceRef][]ParentMatch)
	}
	ref := IdentifiedMoleculeRef(len(s.molecules))
	s.molecules = append(s.molecules, IdentifiedMolecule{
		Type: typ, Sequence: sequence, ParentMatch: parentMatch,
		ProcessSteps: s.inheritStep(nil),
	})
	s.moleculeSet[ref] = struct{}{}
	return ref, nil
}

// RegisterAdduct adds an adduct descriptor.
func (s *Store) RegisterAdduct(name, formula string, charge int, mass float64) AdductRef {
	ref := AdductRef(len(s.adducts))
	s.adducts = append(s.adducts, Adduct{Name: name, Formula: formula, Charge: charge, Mass: mass})
	return ref
}

// RegisterObservationMatch adds the central edge between an identified
// molecule and an observation.
func (s *Store) RegisterObservationMatch(molecule IdentifiedMoleculeRef, observation ObservationRef, charge int, adduct *AdductRef) (ObservationMatchRef, error) {
	if !s.noChecks {
		if _, ok := s.moleculeSet[molecule]; !ok {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterObservationMatch"), apperrors.KindIllegalArgument, "unknown molecule ref")
		}
		if _, ok := s.observaSet[observation]; !ok {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterObservationMatch"), apperrors.KindIllegalArgument, "unknown observation ref")
		}
		if adduct != nil && (int(*adduct) < 0 || int(*adduct) >= len(s.adducts)) {
			return 0, apperrors.E(apperrors.Op("idstore.RegisterObservationMatch"), apperrors.KindIllegalArgument, "unknown adduct ref")
		}
	}
	m := ObservationMatch{
		Molecule: molecule, Observation: observation, Charge: charge,
		ProcessSteps: s.inheritStep(nil),
	}
	if adduct != nil {
		m.Adduct, m.HasAdduct = *adduct, true
	}
	ref := ObservationMatchRef(len(s.matches))
	s.matches = append(s.matches, m)
	s.matchSet[ref] = struct{}{}
	return ref, nil
}

// RegisterObservationMatchGroup groups observation matches.
func (s *Store) RegisterObservationMatchGroup(members []ObservationMatchRef) (ObservationMatchGroupRef, error) {
	if !s.noChecks {
		for _, m := range members {
			if _, ok := s.matchSet[m]; !ok {
				return 0, apperrors.E(apperrors.Op("idstore.RegisterObservationMatchGroup"), apperrors.KindIllegalArgument, "unknown observation match ref")
			}
		}
	}
	ref := ObservationMatchGroupRef(len(s.matchGroups))
	s.matchGroups = append(s.matchGroups, ObservationMatchGroup{Members: members, ProcessSteps: s.inheritStep(nil)})
	return ref, nil
}

// RegisterParentGroupSet groups parent sequences.
func (s *Store) RegisterParentGroupSet(members []ParentSequenceRef) (ParentGroupSetRef, error) {
	if !s.noChecks {
		for _, m := range members {
			if _, ok := s.parentSet[m]; !ok {
				return 0, apperrors.E(apperrors.Op("idstore.RegisterParentGroupSet"), apperrors.KindIllegalArgument, "unknown parent sequence ref")
			}
		}
	}
	ref := ParentGroupSetRef(len(s.parentGroups))
	s.parentGroups = append(s.parentGroups, ParentGroupSet{Members: members, ProcessSteps: s.inheritStep(nil)})
	return ref, nil
}

// AddScore appends a score to a match's most recent processing step.
func (s *Store) AddScore(match ObservationMatchRef, scoreType ScoreTypeRef, value float64) error {
	if int(match) < 0 || int(match) >= len(s.matches) {
		return apperrors.E(apperrors.Op("idstore.AddScore"), apperrors.KindIllegalArgument, "unknown observation match ref")
	}
	if int(scoreType) < 0 || int(scoreType) >= len(s.scoreTypes) {
		return apperrors.E(apperrors.Op("idstore.AddScore"), apperrors.KindIllegalArgument, "unknown score type ref")
	}
	m := &s.matches[match]
	if len(m.ProcessSteps) == 0 {
		return apperrors.E(apperrors.Op("idstore.AddScore"), apperrors.KindMissingInfo, "match has no processing step to attach a score to")
	}
	last := &m.ProcessSteps[len(m.ProcessSteps)-1]
	if last.Scores == nil {
		last.Scores = make(map[ScoreTypeRef]float64)
	}
	last.Scores[scoreType] = value
	return nil
}

// --- read accessors ---

func (s *Store) InputFile(ref InputFileRef) (InputFile, bool) {
	if int(ref) < 0 || int(ref) >= len(s.inputFiles) {
		return InputFile{}, false
	}
	return s.inputFiles[ref], true
}

func (s *Store) Observation(ref ObservationRef) (Observation, bool) {
	if _, ok := s.observaSet[ref]; !ok {
		return Observation{}, false
	}
	return s.observations[ref], true
}

func (s *Store) ParentSequence(ref ParentSequenceRef) (ParentSequence, bool) {
	if _, ok := s.parentSet[ref]; !ok {
		return ParentSequence{}, false
	}
	return s.parents[ref], true
}

func (s *Store) Molecule(ref IdentifiedMoleculeRef) (IdentifiedMolecule, bool) {
	if _, ok := s.moleculeSet[ref]; !ok {
		return IdentifiedMolecule{}, false
	}
	return s.molecules[ref], true
}

func (s *Store) Match(ref ObservationMatchRef) (ObservationMatch, bool) {
	if _, ok := s.matchSet[ref]; !ok {
		return ObservationMatch{}, false
	}
	return s.matches[ref], true
}

func (s *Store) ProcessingStep(ref ProcessingStepRef) (ProcessingStep, bool) {
	if int(ref) < 0 || int(ref) >= len(s.steps) {
		return ProcessingStep{}, false
	}
	return s.steps[ref], true
}

func (s *Store) ScoreType(ref ScoreTypeRef) (ScoreType, bool) {
	if int(ref) < 0 || int(ref) >= len(s.scoreTypes) {
		return ScoreType{}, false
	}
	return s.scoreTypes[ref], true
}

// AllMatchRefs returns every live observation-match reference, in
// insertion order (§5 "observation matches are iterated in insertion
// order").
func (s *Store) AllMatchRefs() []ObservationMatchRef {
	refs := make([]ObservationMatchRef, 0, len(s.matches))
	for i := range s.matches {
		ref := ObservationMatchRef(i)
		if _, ok := s.matchSet[ref]; ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Counts reports the number of entities held in each arena table,
// including entities that Cleanup has since pruned; used by tests
// verifying merge idempotence (§8 testable property 5).
type Counts struct {
	InputFiles, Software, SearchParams, Steps, ScoreTypes      int
	Observations, Parents, Molecules, Adducts, Matches         int
	ParentGroups, MatchGroups                                  int
}

func (s *Store) Counts() Counts {
	return Counts{
		InputFiles:   len(s.inputFiles),
		Software:     len(s.software),
		SearchParams: len(s.searchParams),
		Steps:        len(s.steps),
		ScoreTypes:   len(s.scoreTypes),
		Observations: len(s.observations),
		Parents:      len(s.parents),
		Molecules:    len(s.molecules),
		Adducts:      len(s.adducts),
		Matches:      len(s.matches),
		ParentGroups: len(s.parentGroups),
		MatchGroups:  len(s.matchGroups),
	}
}
