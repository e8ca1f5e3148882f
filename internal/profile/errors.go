package profile

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound reports that no committed or loadable document defines
// a profile. Callers that treat absence as benign test for it with
// errors.Is.
var ErrProfileNotFound = errors.New("profile not found")

// RedefinitionError reports a profile name committed from one document and
// defined again by another. Nothing from the offending document is
// committed.
type RedefinitionError struct {
	Name  string
	Prior *Profile
	Path  string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("profile %q redefined in %q (first defined in %q)",
		e.Name, e.Path, e.Prior.File().Path)
}

// ErrorCode classifies profile document validation failures.
type ErrorCode string

const (
	ErrInvalidDocShape        ErrorCode = "invalid-document-shape"
	ErrInvalidProfileShape    ErrorCode = "invalid-profile-shape"
	ErrInvalidCapabilityShape ErrorCode = "invalid-capability-shape"
)

// ValidationError reports malformed profile document data. Doc names the
// owning document; Path, when set, points at the offending member.
type ValidationError struct {
	Code    ErrorCode
	Doc     string
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s in %q", e.Code, e.Message, e.Doc)
	}
	return fmt.Sprintf("[%s] %s at %s in %q", e.Code, e.Message, e.Path, e.Doc)
}

func newValidationf(code ErrorCode, doc, path, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Doc: doc, Path: path, Message: fmt.Sprintf(format, args...)}
}
