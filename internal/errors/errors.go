// Package errors defines the domain error taxonomy shared by the screening
// engine and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a DomainError for callers that only care about the class
// of failure (e.g. mapping to an HTTP status).
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindUnprocessableFeedback Kind = "unprocessable_feedback"
	KindCollaborator          Kind = "collaborator"
)

// DomainError is a typed error carrying a stable code.
type DomainError struct {
	Kind      Kind
	Code      string
	Message   string
	Fields    map[string]string
	Retryable bool
	Cause     error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + e.Fields[k]
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, and on Code when the target carries one. The bare kind
// sentinels below therefore match every error of their kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithCause returns a copy of e wrapping cause. Sentinels are never mutated.
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithFields returns a copy of e carrying per-field validation messages.
func (e *DomainError) WithFields(fields map[string]string) *DomainError {
	cp := *e
	cp.Fields = fields
	return &cp
}

// Kind sentinels, for errors.Is checks.
var (
	ErrValidation            = &DomainError{Kind: KindValidation}
	ErrNotFound              = &DomainError{Kind: KindNotFound}
	ErrConflict              = &DomainError{Kind: KindConflict}
	ErrUnprocessableFeedback = &DomainError{Kind: KindUnprocessableFeedback}
	ErrCollaborator          = &DomainError{Kind: KindCollaborator}
)

// KindOf reports the kind of err, or "" if err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// AsDomain returns err unchanged when it already is a DomainError and
// otherwise wraps it in fallback.
func AsDomain(err error, fallback *DomainError) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return fallback.WithCause(err)
}
