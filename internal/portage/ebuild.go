// Package portage implements the package database queried by the explorer:
// an on-disk ebuild metadata cache and installed-package database, an
// in-memory/YAML fixture, and the settings used to evaluate USE flags.
package portage

import (
	"strings"

	"github.com/wexinc/portshell/internal/atom"
)

// Ebuild is the metadata of one package version, either available in a
// repository or recorded in the installed-package database.
type Ebuild struct {
	CPV      *atom.CPV
	Slot     string
	Keywords []string
	IUSE     []string
	Depend   string
	RDepend  string
	PDepend  string
	BDepend  string
	IDepend  string

	// Use is the set of flags the package was built with. Only meaningful
	// for installed packages.
	Use []string
}

// DependencyString joins every dependency class into one expression.
func (e *Ebuild) DependencyString() string {
	var parts []string
	for _, s := range []string{e.Depend, e.PDepend, e.RDepend, e.BDepend, e.IDepend} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// FlagNames returns the IUSE entries with default markers stripped.
func (e *Ebuild) FlagNames() []string {
	names := make([]string, 0, len(e.IUSE))
	for _, f := range e.IUSE {
		names = append(names, strings.TrimLeft(f, "+-"))
	}
	return names
}

// matches reports whether a satisfies this version.
func (e *Ebuild) matches(a *atom.Atom) bool {
	return a.Matches(e.CPV.CP(), e.CPV.Version, e.Slot)
}

// Source lists the versions of a package known to one database.
type Source interface {
	Versions(cp string) ([]*Ebuild, error)
}

// MemorySource is a Source backed by a map, used for fixtures.
type MemorySource struct {
	byCP map[string][]*Ebuild
	n    int
}

// NewMemorySource indexes ebuilds by category/name.
func NewMemorySource(ebuilds ...*Ebuild) *MemorySource {
	s := &MemorySource{byCP: make(map[string][]*Ebuild)}
	for _, e := range ebuilds {
		s.Add(e)
	}
	return s
}

// Add registers e.
func (s *MemorySource) Add(e *Ebuild) {
	cp := e.CPV.CP()
	s.byCP[cp] = append(s.byCP[cp], e)
	s.n++
}

// Versions implements Source.
func (s *MemorySource) Versions(cp string) ([]*Ebuild, error) {
	return s.byCP[cp], nil
}

// Len returns the number of ebuilds held.
func (s *MemorySource) Len() int {
	return s.n
}
