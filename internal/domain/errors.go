package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("record already exists")
	ErrValidation   = errors.New("validation failed")
)

type ErrorKind string

const (
	MalformedIdentifier ErrorKind = "MalformedIdentifier"
	UnknownTeamColor    ErrorKind = "UnknownTeamColor"
	FieldOutOfRange     ErrorKind = "FieldOutOfRange"
	LengthMismatch      ErrorKind = "LengthMismatch"
	LengthExceeded      ErrorKind = "LengthExceeded"
	MissingField        ErrorKind = "MissingField"
	InvalidField        ErrorKind = "InvalidField"
	DuplicatePlayer     ErrorKind = "DuplicatePlayer"
)

type ValidationError struct {
	Field  string
	Kind   ErrorKind
	Reason string
}

func NewValidationError(field string, kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors holds every failure of a single check, in field order.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list so callers can return it directly.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// HasKind reports whether err carries a ValidationError of the given kind.
func HasKind(err error, kind ErrorKind) bool {
	var list ValidationErrors
	if errors.As(err, &list) {
		for _, e := range list {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}
	var single *ValidationError
	return errors.As(err, &single) && single.Kind == kind
}

type NotFoundError struct {
	Entity  string
	MatchID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found for match %s", e.Entity, e.MatchID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type DuplicateKeyError struct {
	Entity  string
	MatchID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists for match %s", e.Entity, e.MatchID)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
