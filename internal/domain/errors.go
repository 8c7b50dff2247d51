package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrExecution       = errors.New("execution error")

	// Instrument state violations.
	ErrNoTip         = errors.New("no tip attached")
	ErrTipAttached   = errors.New("tip already attached")
	ErrTipsExhausted = errors.New("tip racks exhausted")
	ErrOverCapacity  = errors.New("tip capacity exceeded")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindInvalidConfig   ErrorKind = "invalid_config"
	KindInvalidManifest ErrorKind = "invalid_manifest"
	KindExecution       ErrorKind = "execution"
	KindInstrument      ErrorKind = "instrument"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError collects every issue found in a manifest so the operator
// can fix the CSV in one pass.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "manifest validation failed with %d error(s)", len(e.Issues))
	if e.Path != "" {
		fmt.Fprintf(&b, " (path=%s)", e.Path)
	}
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrInvalidManifest }

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return kind == KindInvalidManifest
	}
	return false
}
