package args

import (
	"errors"
	"fmt"

	rterrors "github.com/vango-dev/typedroute/internal/errors"
)

// Sentinel errors. A *FieldError matches the sentinel of its code.
var (
	ErrSchema       = errors.New("invalid argument schema")
	ErrValidation   = errors.New("argument failed validation")
	ErrMalformed    = errors.New("malformed argument")
	ErrTypeMismatch = errors.New("argument type mismatch")
	ErrMissingPath  = errors.New("missing path argument")
	ErrUnencodable  = errors.New("argument cannot be encoded")
)

// Error codes, registered in internal/errors.
const (
	CodeSchema           = "E100"
	CodeValidation       = "E101"
	CodeMalformedBoolean = "E102"
	CodeMalformedJSON    = "E103"
	CodeTypeMismatch     = "E104"
	CodeMalformedEscape  = "E105"
	CodeMissingPath      = "E110"
	CodeUnencodable      = "E111"
)

// FieldError reports the failure of a single argument.
type FieldError struct {
	Field  string
	Source Source
	Kind   Kind
	Code   string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s argument %q (%s): %s: %v", e.Source, e.Field, e.Kind, sentinelFor(e.Code), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error { return e.Err }

// Is matches the sentinel error for the field error's code.
func (e *FieldError) Is(target error) bool {
	return target == sentinelFor(e.Code)
}

// Coded converts the field error into a registered, printable error.
func (e *FieldError) Coded() *rterrors.Error {
	return rterrors.New(e.Code).WithField(e.Field).Wrap(e.Err)
}

func sentinelFor(code string) error {
	switch code {
	case CodeSchema:
		return ErrSchema
	case CodeValidation:
		return ErrValidation
	case CodeMalformedBoolean, CodeMalformedJSON, CodeMalformedEscape:
		return ErrMalformed
	case CodeTypeMismatch:
		return ErrTypeMismatch
	case CodeMissingPath:
		return ErrMissingPath
	case CodeUnencodable:
		return ErrUnencodable
	}
	return nil
}

func fieldError(f Field, code string, err error) *FieldError {
	return &FieldError{Field: f.Name, Source: f.Source, Kind: f.Kind, Code: code, Err: err}
}

// Coded converts any codec error into a registered error for display. It
// returns nil for nil.
func Coded(err error) *rterrors.Error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Coded()
	}
	if errors.Is(err, ErrSchema) {
		return rterrors.New(CodeSchema).Wrap(err)
	}
	return rterrors.FromError(err, CodeValidation)
}
