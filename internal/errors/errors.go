// Package errors provides error types with actionable suggestions for
// portshell. Errors carry enough context for the CLI to tell the user what
// went wrong and what to try next.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel error kinds for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrRepository indicates the package database could not be read.
	ErrRepository = errors.New("repository error")
	// ErrNotFound indicates a package could not be resolved.
	ErrNotFound = errors.New("not found")
	// ErrParse indicates malformed input data.
	ErrParse = errors.New("parse error")
	// ErrEngine indicates a background computation failed.
	ErrEngine = errors.New("engine error")
)

// PortshellError is the base error type for portshell errors.
type PortshellError struct {
	// Kind is the category of error (e.g., ErrConfig, ErrNotFound).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// DocLink is a URL to relevant documentation.
	DocLink string
	// Cause is the underlying error.
	Cause error
	// Details provides additional context (e.g., file path, atom).
	Details map[string]string
}

// Error implements the error interface.
func (e *PortshellError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *PortshellError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches target.
func (e *PortshellError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format renders the error with its details, suggestion and doc link.
func (e *PortshellError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	if e.DocLink != "" {
		sb.WriteString("\nDocumentation: ")
		sb.WriteString(e.DocLink)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *PortshellError) WithDetails(key, value string) *PortshellError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *PortshellError) WithCause(cause error) *PortshellError {
	e.Cause = cause
	return e
}

// New creates a new PortshellError with the given kind and message.
func New(kind error, message string) *PortshellError {
	return &PortshellError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *PortshellError {
	return &PortshellError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// WithSuggestion creates a new error with a suggestion.
func WithSuggestion(kind error, message, suggestion string) *PortshellError {
	return &PortshellError{
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Format renders err for the terminal. Errors that are not a
// PortshellError are printed as-is.
func Format(err error) string {
	var pe *PortshellError
	if errors.As(err, &pe) {
		return pe.Format()
	}
	return "Error: " + err.Error() + "\n"
}
