package irregular

import (
	"errors"
)

var (
	// ErrInvalidUse is returned when a Template is used without having been
	// created by New, FromSource or FromPattern.
	ErrInvalidUse = errors.New("irregular: template must be created with New, FromSource or FromPattern")

	// ErrMissingSource is returned when compiling a Template that has no source.
	ErrMissingSource = errors.New("irregular: no source pattern was defined for this template; cannot compile")

	// ErrInvalidFlag is wrapped by a PatternError when the flag string holds an
	// unknown or repeated flag.
	ErrInvalidFlag = errors.New("invalid flag")
)

// PatternError is returned when the native engine rejects a compiled pattern.
// Source is the fully rewritten source handed to the engine.
type PatternError struct {
	Source string
	Flags  string
	Err    error
}

// Error implements the error interface.
// Engine errors are returned unchanged to keep their stdlib-compatible format.
func (e *PatternError) Error() string {
	if errors.Is(e.Err, ErrInvalidFlag) {
		return "irregular: " + e.Err.Error() + " in /" + e.Source + "/" + e.Flags
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
