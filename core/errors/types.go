// Package errors implements the error taxonomy shared by every volcans component.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies the condition that produced an error.
type Kind int

const (
	// KindNotFound indicates an identifier with zero catalogue matches.
	KindNotFound Kind = iota

	// KindAmbiguous indicates a volcano name shared by two or more catalogue entries.
	KindAmbiguous

	// KindInvalidWeight indicates an unparsable or negative weight, or a weighting
	// scheme that does not sum to one.
	KindInvalidWeight

	// KindDuplicateWeight indicates a criterion weight supplied more than once.
	KindDuplicateWeight

	// KindInvalidInput indicates any other rejected user input (count, empty query).
	KindInvalidInput

	// KindDataset indicates malformed or missing reference data.
	KindDataset

	// KindBrowserUnavailable indicates no browser could open an external link.
	KindBrowserUnavailable
)

var kindNames = map[Kind]string{
	KindNotFound:           "not_found",
	KindAmbiguous:          "ambiguous",
	KindInvalidWeight:      "invalid_weight",
	KindDuplicateWeight:    "duplicate_weight",
	KindInvalidInput:       "invalid_input",
	KindDataset:            "dataset",
	KindBrowserUnavailable: "browser_unavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Severity decides whether an error aborts a run.
type Severity int

const (
	// SeverityFatal errors propagate to the command boundary and end the run.
	SeverityFatal Severity = iota

	// SeverityWarning errors are logged and the run continues.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "fatal"
}

// Severity returns the handling severity of the kind.
func (k Kind) Severity() Severity {
	if k == KindBrowserUnavailable {
		return SeverityWarning
	}
	return SeverityFatal
}

// VolcansError wraps an error with its kind.
type VolcansError struct {
	Kind       Kind
	Message    string
	Underlying error
	Context    map[string]string
}

// Error implements the error interface. The message is already user-facing,
// so the kind is not repeated in it.
func (e *VolcansError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *VolcansError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a VolcansError of the same kind.
func (e *VolcansError) Is(target error) bool {
	var ve *VolcansError
	if errors.As(target, &ve) {
		return e.Kind == ve.Kind
	}
	return false
}

// New creates a VolcansError with the given kind and message.
func New(kind Kind, message string) *VolcansError {
	return &VolcansError{
		Kind:    kind,
		Message: message,
		Context: make(map[string]string),
	}
}

// Newf creates a VolcansError with a formatted message.
func Newf(kind Kind, format string, args ...any) *VolcansError {
	return New(kind, fmt.Sprintf(format, args...))
}

// WithContext adds a key-value pair to the error.
func (e *VolcansError) WithContext(key, value string) *VolcansError {
	e.Context[key] = value
	return e
}

// GetKind extracts the Kind from an error, defaulting to KindInvalidInput.
func GetKind(err error) Kind {
	var ve *VolcansError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindInvalidInput
}

// IsFatal reports whether err should abort the run. Errors that are not
// VolcansErrors are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var ve *VolcansError
	if errors.As(err, &ve) {
		return ve.Kind.Severity() == SeverityFatal
	}
	return true
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrNotFound           = New(KindNotFound, "not found")
	ErrAmbiguous          = New(KindAmbiguous, "not unique")
	ErrInvalidWeight      = New(KindInvalidWeight, "invalid weight")
	ErrDuplicateWeight    = New(KindDuplicateWeight, "duplicate weight")
	ErrInvalidInput       = New(KindInvalidInput, "invalid input")
	ErrDataset            = New(KindDataset, "invalid dataset")
	ErrBrowserUnavailable = New(KindBrowserUnavailable, "browser unavailable")
)

// Wrap wraps err with a kind. An existing VolcansError keeps its kind.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}

	var ve *VolcansError
	if errors.As(err, &ve) {
		return &VolcansError{
			Kind:       ve.Kind,
			Message:    message,
			Underlying: err,
			Context:    ve.Context,
		}
	}

	return &VolcansError{
		Kind:       kind,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]string),
	}
}
