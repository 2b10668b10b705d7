package errors

import "fmt"

// Package database error constructors.

// PackageNotFound creates an error for a root package that has no visible
// version.
func PackageNotFound(atom string) *PortshellError {
	return &PortshellError{
		Kind:    ErrNotFound,
		Message: fmt.Sprintf("no visible version of %s", atom),
		Details: map[string]string{
			"atom": atom,
		},
		Suggestion: `Check the package name and keywords:
  - Use the full category/name form, e.g. dev-lang/python
  - Masked or unkeyworded versions are not visible; add the keyword
    to portage.accept_keywords in the config file`,
	}
}

// RepositoryUnavailable creates an error for an unreadable package database.
func RepositoryUnavailable(path string, cause error) *PortshellError {
	return &PortshellError{
		Kind:    ErrRepository,
		Message: "package database unavailable",
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Point the repository settings at a readable database:
  repository.ebuild_cache: the repository's metadata/md5-cache directory
  repository.installed_db: the installed package database (/var/db/pkg)

Or use a YAML fixture with repository.fixture.`,
		DocLink: "https://wiki.gentoo.org/wiki/Repository_format",
	}
}

// FixtureParseError creates an error for a malformed fixture file.
func FixtureParseError(path string, cause error) *PortshellError {
	return &PortshellError{
		Kind:    ErrParse,
		Message: fmt.Sprintf("failed to load fixture: %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Each entry needs a cpv in category/name-version form, under 'available:' or 'installed:'.",
	}
}

// DeepComputationFailed creates an error for a failed background
// dependency walk.
func DeepComputationFailed(pkg string, cause error) *PortshellError {
	return &PortshellError{
		Kind:    ErrEngine,
		Message: fmt.Sprintf("deep dependency computation failed for %s", pkg),
		Cause:   cause,
		Details: map[string]string{
			"package": pkg,
		},
	}
}
