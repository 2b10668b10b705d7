package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigParseError(t *testing.T) {
	parseErr := errors.New("unexpected end of file")
	err := ConfigParseError("/path/config.yaml", parseErr)

	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigParseError should return ErrConfig")
	}
	if !errors.Is(err.Cause, parseErr) {
		t.Error("Should wrap the parse error")
	}
	if !strings.Contains(err.Suggestion, "YAML") {
		t.Error("Suggestion should mention YAML syntax")
	}
}

func TestConfigValidationError(t *testing.T) {
	err := ConfigValidationError("logging.level", "unknown level", []string{"debug", "info", "warn", "error"})

	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigValidationError should return ErrConfig")
	}
	if !strings.Contains(err.Suggestion, "debug, info, warn, error") {
		t.Error("Suggestion should list valid options")
	}
	if err.Details["field"] != "logging.level" {
		t.Error("Should include field in details")
	}
}

func TestRepositoryConstructors(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *PortshellError
		kind error
		key  string
		want string
	}{
		{"package not found", PackageNotFound("dev-lang/nope"), ErrNotFound, "atom", "dev-lang/nope"},
		{"repository unavailable", RepositoryUnavailable("/var/db/pkg", cause), ErrRepository, "path", "/var/db/pkg"},
		{"fixture parse", FixtureParseError("repo.yaml", cause), ErrParse, "path", "repo.yaml"},
		{"deep failure", DeepComputationFailed("dev-libs/foo-1.0", cause), ErrEngine, "package", "dev-libs/foo-1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("expected kind %v", tt.kind)
			}
			if tt.err.Details[tt.key] != tt.want {
				t.Errorf("Details[%q] = %q, want %q", tt.key, tt.err.Details[tt.key], tt.want)
			}
		})
	}

	if !errors.Is(RepositoryUnavailable("/x", cause), cause) {
		t.Error("RepositoryUnavailable should wrap its cause")
	}
}
