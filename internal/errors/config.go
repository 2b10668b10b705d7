package errors

import (
	"fmt"
	"strings"
)

// Configuration-related error constructors.

// ConfigParseError creates an error for YAML parsing failures.
func ConfigParseError(configPath string, parseErr error) *PortshellError {
	return &PortshellError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check the config file for YAML syntax errors:
  1. Use spaces, not tabs, for indentation
  2. Quote values containing ':' or '#'
  3. Write lists with a '- ' prefix or as [a, b]

Remove the file (or unset PORTSHELL_CONFIG) to run with defaults.`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *PortshellError {
	suggestion := fmt.Sprintf("Fix the %q field in the config file", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &PortshellError{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}
