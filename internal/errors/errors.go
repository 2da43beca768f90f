// Package errors provides the error taxonomy shared across the MS core.
// It offers consistent error wrapping, logging, and handling patterns
// to improve error visibility throughout the codebase.
package errors

import (
	"fmt"
	"log"
	"runtime"
	"strings"
)

// Op represents an operation name for error context.
type Op string

// Error represents a core error with context.
type Error struct {
	Op   Op     // Operation that failed
	Kind Kind   // Category of error
	Err  error  // Underlying error
	Msg  string // Additional context message
}

// Kind represents the category of error, modeled on §7 of the spec.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound        // ElementNotFound: key absent in a parameter tree or look-up map
	KindInvalidValue    // InvalidParameter / InvalidValue: restriction violation or structural violation
	KindMissingInfo     // MissingInformation: required cross-reference not supplied
	KindIllegalArgument // IllegalArgument: reference invalid against an existence table, inconsistent state
	KindParse           // ParseError: malformed binary section or failed external-process parse
	KindIO              // UnableToCreateFile / FileEmpty: I/O failure
	KindExternal        // external-tool non-zero exit (INCOMPATIBLE_INPUT_DATA / EXTERNAL_PROGRAM_ERROR)
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidValue:
		return "invalid_value"
	case KindMissingInfo:
		return "missing_information"
	case KindIllegalArgument:
		return "illegal_argument"
	case KindParse:
		return "parse"
	case KindIO:
		return "io"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(string(e.Op))
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
		if e.Err != nil {
			b.WriteString(": ")
		}
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error with the given arguments.
// Arguments can be: Op, Kind, error, string (message).
func E(args ...interface{}) *Error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case error:
			e.Err = a
		case string:
			e.Msg = a
		}
	}
	return e
}

// Wrap wraps an error with an operation name for context.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapMsg wraps an error with an operation name and message.
func WrapMsg(op Op, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Msg: msg, Err: err}
}

// ErrEndParsingSoftly is the EndParsingSoftly control-flow signal (§7):
// loaders use it internally to stop a metadata-only read early. It must
// never be surfaced past the loader boundary.
var ErrEndParsingSoftly = fmt.Errorf("end parsing softly")

// IsKind checks if an error is of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}

// GetKind returns the kind of an error, or KindUnknown.
func GetKind(err error) Kind {
	e, ok := err.(*Error)
	if !ok {
		return KindUnknown
	}
	return e.Kind
}

// SkipCounter tracks how many times operations have been skipped.
// Use this to provide visibility into silent error patterns, e.g. the
// non-fatal warnings §7 calls for (proteins reported by Percolator but
// absent from input, unknown scan modes, differing merged-run parameters).
type SkipCounter struct {
	Op         string
	Count      int
	LastErr    error
	LastDetail string
}

// NewSkipCounter creates a new skip counter for the given operation.
func NewSkipCounter(op string) *SkipCounter {
	return &SkipCounter{Op: op}
}

// Skip records a skipped operation due to an error.
func (s *SkipCounter) Skip(err error, detail string) {
	s.Count++
	s.LastErr = err
	s.LastDetail = detail
}

// Report logs a summary if any operations were skipped.
func (s *SkipCounter) Report() {
	if s.Count > 0 {
		log.Printf("warning: %s skipped %d items (last error: %v, detail: %s)",
			s.Op, s.Count, s.LastErr, s.LastDetail)
	}
}

// ReportIfAny logs a summary only if the count exceeds threshold.
func (s *SkipCounter) ReportIfAny(threshold int) {
	if s.Count >= threshold {
		s.Report()
	}
}

// LogAndContinue logs an error and returns (for use in continue patterns).
// This replaces silent continue statements with visible logging.
func LogAndContinue(operation string, err error) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		log.Printf("warning [%s:%d]: %s failed: %v", file, line, operation, err)
	} else {
		log.Printf("warning: %s failed: %v", operation, err)
	}
}

// LogAndContinueWith logs an error with additional context.
func LogAndContinueWith(operation string, err error, context string) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		log.Printf("warning [%s:%d]: %s failed for %s: %v", file, line, operation, context, err)
	} else {
		log.Printf("warning: %s failed for %s: %v", operation, context, err)
	}
}

// MustHandle panics if the error is not nil.
// Use this only for errors that should never happen in normal operation.
func MustHandle(err error) {
	if err != nil {
		panic(fmt.Sprintf("unexpected error: %v", err))
	}
}

// Must panics if the error is not nil and returns the value otherwise.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("unexpected error: %v", err))
	}
	return v
}

// IgnoreError explicitly ignores an error with a reason.
func IgnoreError(err error, reason string) {
	if err != nil {
		log.Printf("debug: ignoring error (%s): %v", reason, err)
	}
}
