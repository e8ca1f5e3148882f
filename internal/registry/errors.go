package registry

import (
	"errors"
	"fmt"
)

// ErrFileNotFound reports that no registry file matches a lookup. Callers
// that treat an absent file as benign test for it with errors.Is.
var ErrFileNotFound = errors.New("registry file not found")

// ErrorCode classifies registry file validation failures.
type ErrorCode string

const (
	ErrPathNotAbsolute ErrorCode = "path-not-absolute"
	ErrPathNotFile     ErrorCode = "path-not-file"
	ErrInvalidSuffix   ErrorCode = "invalid-suffix"
	ErrInvalidName     ErrorCode = "invalid-name"
)

// ValidationError reports a path that cannot become a registry file of the
// requested kind.
type ValidationError struct {
	Code    ErrorCode
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %q", e.Code, e.Message, e.Path)
}

func newValidationf(code ErrorCode, path, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
