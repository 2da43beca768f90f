package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorCreation(t *testing.T) {
	err := E(Op("test.operation"), KindInvalidValue, "something failed")

	if err.Op != "test.operation" {
		t.Errorf("expected Op 'test.operation', got %q", err.Op)
	}
	if err.Kind != KindInvalidValue {
		t.Errorf("expected Kind KindInvalidValue, got %v", err.Kind)
	}
	if err.Msg != "something failed" {
		t.Errorf("expected Msg 'something failed', got %q", err.Msg)
	}
}

func TestErrorWithWrappedError(t *testing.T) {
	underlying := fmt.Errorf("connection refused")
	err := E(Op("idstore.merge"), KindIllegalArgument, underlying, "failed to merge")

	if err.Err != underlying {
		t.Error("expected underlying error to be set")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "idstore.merge") {
		t.Errorf("error string should contain operation, got %q", errStr)
	}
	if !strings.Contains(errStr, "failed to merge") {
		t.Errorf("error string should contain message, got %q", errStr)
	}
	if !strings.Contains(errStr, "connection refused") {
		t.Errorf("error string should contain underlying error, got %q", errStr)
	}
}

func TestErrorUnwrap(t *testing.T) {
	underlying := fmt.Errorf("root cause")
	err := E(Op("test"), underlying)

	unwrapped := err.Unwrap()
	if unwrapped != underlying {
		t.Error("Unwrap should return the underlying error")
	}
}

func TestErrorStringFormats(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "op only",
			err:      &Error{Op: "test"},
			expected: "test: ",
		},
		{
			name:     "msg only",
			err:      &Error{Msg: "failed"},
			expected: "failed",
		},
		{
			name:     "err only",
			err:      &Error{Err: fmt.Errorf("root")},
			expected: "root",
		},
		{
			name:     "op and msg",
			err:      &Error{Op: "test", Msg: "failed"},
			expected: "test: failed",
		},
		{
			name:     "all fields",
			err:      &Error{Op: "test", Msg: "failed", Err: fmt.Errorf("root")},
			expected: "test: failed: root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown"},
		{KindNotFound, "not_found"},
		{KindInvalidValue, "invalid_value"},
		{KindMissingInfo, "missing_information"},
		{KindIllegalArgument, "illegal_argument"},
		{KindParse, "parse"},
		{KindIO, "io"},
		{KindExternal, "external"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	wrapped := Wrap("test", nil)
	if wrapped != nil {
		t.Error("Wrap(nil) should return nil")
	}

	underlying := fmt.Errorf("test error")
	wrapped = Wrap("idstore.register", underlying)
	if wrapped == nil {
		t.Fatal("Wrap should return non-nil for non-nil error")
	}

	appErr, ok := wrapped.(*Error)
	if !ok {
		t.Fatal("Wrap should return *Error")
	}
	if appErr.Op != "idstore.register" {
		t.Errorf("expected Op 'idstore.register', got %q", appErr.Op)
	}
}

func TestWrapMsg(t *testing.T) {
	wrapped := WrapMsg("test", "msg", nil)
	if wrapped != nil {
		t.Error("WrapMsg(nil) should return nil")
	}

	underlying := fmt.Errorf("test error")
	wrapped = WrapMsg("idstore.register", "registration failed", underlying)
	if wrapped == nil {
		t.Fatal("WrapMsg should return non-nil for non-nil error")
	}

	errStr := wrapped.Error()
	if !strings.Contains(errStr, "registration failed") {
		t.Errorf("error should contain message, got %q", errStr)
	}
}

func TestIsKind(t *testing.T) {
	err := E(KindIllegalArgument, "test")
	if !IsKind(err, KindIllegalArgument) {
		t.Error("expected IsKind to return true for matching kind")
	}
	if IsKind(err, KindParse) {
		t.Error("expected IsKind to return false for non-matching kind")
	}

	stdErr := fmt.Errorf("standard error")
	if IsKind(stdErr, KindIllegalArgument) {
		t.Error("expected IsKind to return false for non-Error type")
	}
}

func TestGetKind(t *testing.T) {
	err := E(KindExternal, "test")
	kind := GetKind(err)
	if kind != KindExternal {
		t.Errorf("expected KindExternal, got %v", kind)
	}

	stdErr := fmt.Errorf("standard error")
	kind = GetKind(stdErr)
	if kind != KindUnknown {
		t.Errorf("expected KindUnknown for non-Error, got %v", kind)
	}
}

func TestSkipCounter(t *testing.T) {
	sc := NewSkipCounter("test_operation")

	if sc.Count != 0 {
		t.Errorf("initial count should be 0, got %d", sc.Count)
	}

	sc.Skip(fmt.Errorf("error 1"), "item1")
	sc.Skip(fmt.Errorf("error 2"), "item2")
	sc.Skip(fmt.Errorf("error 3"), "item3")

	if sc.Count != 3 {
		t.Errorf("expected count 3, got %d", sc.Count)
	}

	if sc.LastErr == nil || sc.LastErr.Error() != "error 3" {
		t.Errorf("LastErr should be last error, got %v", sc.LastErr)
	}

	if sc.LastDetail != "item3" {
		t.Errorf("LastDetail should be 'item3', got %q", sc.LastDetail)
	}
}

func TestSkipCounterReport(t *testing.T) {
	sc := NewSkipCounter("test")
	sc.Report()
	sc.Skip(fmt.Errorf("err"), "detail")
	sc.Report()
}

func TestSkipCounterReportIfAny(t *testing.T) {
	sc := NewSkipCounter("test")

	sc.Skip(fmt.Errorf("err"), "detail")
	sc.ReportIfAny(5)

	for i := 0; i < 4; i++ {
		sc.Skip(fmt.Errorf("err %d", i), fmt.Sprintf("detail%d", i))
	}
	sc.ReportIfAny(5)
}

func TestLogAndContinue(t *testing.T) {
	LogAndContinue("test operation", fmt.Errorf("test error"))
}

func TestLogAndContinueWith(t *testing.T) {
	LogAndContinueWith("test operation", fmt.Errorf("test error"), "context info")
}

func TestMustHandle(t *testing.T) {
	MustHandle(nil)

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustHandle should panic on non-nil error")
		}
	}()
	MustHandle(fmt.Errorf("fatal error"))
}

func TestMust(t *testing.T) {
	result := Must(42, nil)
	if result != 42 {
		t.Errorf("Must should return value, got %d", result)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, fmt.Errorf("error"))
}

func TestIgnoreError(t *testing.T) {
	IgnoreError(nil, "test")
	IgnoreError(fmt.Errorf("test"), "test reason")
}
