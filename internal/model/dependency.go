package model

import (
	"slices"
	"strings"

	"github.com/wexinc/portshell/internal/atom"
)

// Dependency is an edge from a record to another package key. Installed and
// Best, when set, always carry the dependency's key.
type Dependency struct {
	Atom      string
	Key       atom.Key
	Active    bool
	Installed *Record
	Best      *Record
}

// NewDependency resolves the installed and best visible versions of a.
func NewDependency(repo Repository, a string, key atom.Key, active bool) *Dependency {
	d := &Dependency{Atom: a, Key: key, Active: active}
	if id, ok := repo.FindInstalled(a); ok {
		d.Installed = newRecord(repo, id, key)
	}
	if id, ok := repo.FindBestVisible(a); ok {
		d.Best = newRecord(repo, id, key)
	}
	return d
}

func (d *Dependency) String() string {
	return d.Key.String()
}

// SortByKey orders deps by key.
func SortByKey(deps []*Dependency) {
	slices.SortFunc(deps, func(a, b *Dependency) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
}

// SortByStatus orders deps by status rank, then key.
func SortByStatus(deps []*Dependency) {
	slices.SortStableFunc(deps, func(a, b *Dependency) int {
		if ra, rb := Classify(a).Rank(), Classify(b).Rank(); ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Key.String(), b.Key.String())
	})
}

// Flag is a USE flag declared by a package.
type Flag struct {
	Name             string
	DefaultEnabled   bool
	Enabled          bool
	InstalledEnabled bool
}

// ParseFlag parses an IUSE entry such as "+ssl" or "-debug".
func ParseFlag(decl string) Flag {
	switch {
	case strings.HasPrefix(decl, "+"):
		return Flag{Name: decl[1:], DefaultEnabled: true}
	case strings.HasPrefix(decl, "-"):
		return Flag{Name: decl[1:]}
	default:
		return Flag{Name: decl}
	}
}

// Changed reports whether the effective value differs from the installed one.
func (f Flag) Changed() bool {
	return f.Enabled != f.InstalledEnabled
}
