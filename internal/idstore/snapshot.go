package idstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// SnapshotTo persists the store's arena tables to a SQLite file, the way
// the teacher's internal/database persists SRA metadata tables. The
// in-memory arena remains authoritative; this is a side door for large
// runs that need to spill or resume a run across process restarts.
func (s *Store) SnapshotTo(path string) error {
	const op = apperrors.Op("idstore.SnapshotTo")
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return apperrors.WrapMsg(op, "opening snapshot db", err)
	}
	defer db.Close()

	if err := createSnapshotSchema(db); err != nil {
		return apperrors.WrapMsg(op, "creating snapshot schema", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return apperrors.WrapMsg(op, "beginning transaction", err)
	}
	defer tx.Rollback()

	if err := writeInputFiles(tx, s.inputFiles); err != nil {
		return apperrors.WrapMsg(op, "writing input files", err)
	}
	if err := writeSoftware(tx, s.software); err != nil {
		return apperrors.WrapMsg(op, "writing software", err)
	}
	if err := writeScoreTypes(tx, s.scoreTypes); err != nil {
		return apperrors.WrapMsg(op, "writing score types", err)
	}
	if err := writeParents(tx, s.parents); err != nil {
		return apperrors.WrapMsg(op, "writing parent sequences", err)
	}
	if err := writeMolecules(tx, s.molecules); err != nil {
		return apperrors.WrapMsg(op, "writing identified molecules", err)
	}
	if err := writeMatches(tx, s.matches); err != nil {
		return apperrors.WrapMsg(op, "writing observation matches", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.WrapMsg(op, "committing transaction", err)
	}
	return nil
}

func createSnapshotSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS input_files (
		ref INTEGER PRIMARY KEY,
		name TEXT
	);
	CREATE TABLE IF NOT EXISTS software (
		ref INTEGER PRIMARY KEY,
		name TEXT,
		version TEXT
	);
	CREATE TABLE IF NOT EXISTS score_types (
		ref INTEGER PRIMARY KEY,
		name TEXT,
		higher_better BOOLEAN
	);
	CREATE TABLE IF NOT EXISTS parent_sequences (
		ref INTEGER PRIMARY KEY,
		accession TEXT,
		type INTEGER,
		sequence TEXT,
		coverage REAL,
		decoy BOOLEAN
	);
	CREATE TABLE IF NOT EXISTS identified_molecules (
		ref INTEGER PRIMARY KEY,
		type INTEGER,
		sequence TEXT,
		parent_match JSON
	);
	CREATE TABLE IF NOT EXISTS observation_matches (
		ref INTEGER PRIMARY KEY,
		molecule_ref INTEGER,
		observation_ref INTEGER,
		charge INTEGER,
		scores JSON
	);
	`
	_, err := db.Exec(schema)
	return err
}

func writeInputFiles(tx *sql.Tx, files []InputFile) error {
	stmt, err := tx.Prepare("INSERT INTO input_files (ref, name) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, f := range files {
		if _, err := stmt.Exec(i, f.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeSoftware(tx *sql.Tx, software []ProcessingSoftware) error {
	stmt, err := tx.Prepare("INSERT INTO software (ref, name, version) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, sw := range software {
		if _, err := stmt.Exec(i, sw.Name, sw.Version); err != nil {
			return err
		}
	}
	return nil
}

func writeScoreTypes(tx *sql.Tx, types []ScoreType) error {
	stmt, err := tx.Prepare("INSERT INTO score_types (ref, name, higher_better) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, st := range types {
		if _, err := stmt.Exec(i, st.Name, st.HigherBetter); err != nil {
			return err
		}
	}
	return nil
}

func writeParents(tx *sql.Tx, parents []ParentSequence) error {
	stmt, err := tx.Prepare("INSERT INTO parent_sequences (ref, accession, type, sequence, coverage, decoy) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range parents {
		if _, err := stmt.Exec(i, p.Accession, p.Type, p.Sequence, p.Coverage, p.Decoy); err != nil {
			return err
		}
	}
	return nil
}

func writeMolecules(tx *sql.Tx, molecules []IdentifiedMolecule) error {
	stmt, err := tx.Prepare("INSERT INTO identified_molecules (ref, type, sequence, parent_match) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range molecules {
		pm, err := json.Marshal(m.ParentMatch)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(i, m.Type, m.Sequence, string(pm)); err != nil {
			return err
		}
	}
	return nil
}

func writeMatches(tx *sql.Tx, matches []ObservationMatch) error {
	stmt, err := tx.Prepare("INSERT INTO observation_matches (ref, molecule_ref, observation_ref, charge, scores) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range matches {
		scores := map[string]float64{}
		for _, ss := range m.ProcessSteps {
			for st, v := range ss.Scores {
				scores[fmt.Sprintf("%d:%d", ss.Step, st)] = v
			}
		}
		blob, err := json.Marshal(scores)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(i, m.Molecule, m.Observation, m.Charge, string(blob)); err != nil {
			return err
		}
	}
	return nil
}

// OpenSnapshot reloads the input files and parent sequences of a store
// previously written by SnapshotTo. The other tables SnapshotTo writes
// (software, score types, identified molecules, observation matches) are
// not read back, and processing steps, observations and groups are not
// part of the snapshot at all.
func OpenSnapshot(path string) (*Store, error) {
	const op = apperrors.Op("idstore.OpenSnapshot")
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, apperrors.WrapMsg(op, "opening snapshot db", err)
	}
	defer db.Close()

	s := New()

	rows, err := db.Query("SELECT name FROM input_files ORDER BY ref")
	if err != nil {
		return nil, apperrors.WrapMsg(op, "reading input files", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, apperrors.WrapMsg(op, "scanning input file", err)
		}
		s.RegisterInputFile(name)
	}
	rows.Close()

	rows, err = db.Query("SELECT accession, type, sequence, coverage, decoy FROM parent_sequences ORDER BY ref")
	if err != nil {
		return nil, apperrors.WrapMsg(op, "reading parent sequences", err)
	}
	for rows.Next() {
		var accession, sequence string
		var typ MoleculeType
		var coverage float64
		var decoy bool
		if err := rows.Scan(&accession, &typ, &sequence, &coverage, &decoy); err != nil {
			rows.Close()
			return nil, apperrors.WrapMsg(op, "scanning parent sequence", err)
		}
		if _, err := s.RegisterParentSequence(accession, typ, sequence, coverage, decoy); err != nil {
			rows.Close()
			return nil, apperrors.WrapMsg(op, "replaying parent sequence", err)
		}
	}
	rows.Close()

	return s, nil
}
