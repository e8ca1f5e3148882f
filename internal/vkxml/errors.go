package vkxml

import (
	"fmt"
	"strings"
)

// ErrorCode classifies registry XML validation failures.
type ErrorCode string

const (
	ErrRootTag         ErrorCode = "wrong-root-tag"
	ErrMissingName     ErrorCode = "missing-name"
	ErrInvalidName     ErrorCode = "invalid-name"
	ErrNotStruct       ErrorCode = "limittype-outside-struct"
	ErrMemberShape     ErrorCode = "invalid-member-shape"
	ErrLimitTypeVocab  ErrorCode = "invalid-limittype"
	ErrAliasCycle      ErrorCode = "alias-cycle"
	ErrUnexpectedValue ErrorCode = "unexpected-value"
)

// ValidationError reports malformed registry XML data or a value the
// normalizer cannot handle. Element describes the offending XML element;
// Path locates a value during deep normalization.
type ValidationError struct {
	Code    ErrorCode
	Origin  string
	Element string
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Element != "" {
		fmt.Fprintf(&b, " (element %s)", e.Element)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Origin != "" {
		fmt.Fprintf(&b, " in %q", e.Origin)
	}
	return b.String()
}
