// Package model holds the in-memory view of one inspected package: its
// record, its immediate dependencies, its USE flags and the status of each
// dependency relative to what is installed.
package model

import (
	"slices"
	"strings"
	"sync"

	"github.com/wexinc/portshell/internal/atom"
	"github.com/wexinc/portshell/internal/depexpr"
)

// Repository is the package database as seen by the model. Version
// identifiers are opaque strings produced by the repository itself.
type Repository interface {
	FindBestVisible(atom string) (string, bool)
	FindInstalled(atom string) (string, bool)
	RawDependencyExpression(version string) string
	DeclaredFlags(version string) []string
	EnabledFlags(version string) map[string]bool
	InstalledFlags(version string) map[string]bool
}

// Record is one concrete version of a package. Its dependencies and flags
// are computed on first use and cached for the lifetime of the record.
type Record struct {
	repo Repository
	id   string
	key  atom.Key

	depsOnce sync.Once
	deps     []*Dependency

	flagsOnce sync.Once
	flags     []Flag

	builtOnce sync.Once
	built     map[string]bool
}

// NewRecord creates a record for version id, keyed by category/name.
func NewRecord(repo Repository, id string) *Record {
	key := atom.Key{CP: id}
	if cpv, err := atom.ParseCPV(id); err == nil {
		key.CP = cpv.CP()
	}
	return newRecord(repo, id, key)
}

func newRecord(repo Repository, id string, key atom.Key) *Record {
	return &Record{repo: repo, id: id, key: key}
}

// ID returns the repository's version identifier.
func (r *Record) ID() string {
	return r.id
}

// Key returns the package key of the record.
func (r *Record) Key() atom.Key {
	return r.key
}

// Version returns the normalized version, "<version>-r<revision>".
func (r *Record) Version() string {
	cpv, err := atom.ParseCPV(r.id)
	if err != nil {
		return r.id
	}
	return cpv.Version.Normalized()
}

func (r *Record) String() string {
	return r.id
}

// Deps returns the immediate dependencies, sorted by key. A dependency is
// active when the expression reduced under the record's enabled flags still
// names it.
func (r *Record) Deps() []*Dependency {
	r.depsOnce.Do(func() {
		r.deps = r.loadDeps()
	})
	return r.deps
}

func (r *Record) loadDeps() []*Dependency {
	raw := r.repo.RawDependencyExpression(r.id)
	expr := depexpr.Parse(raw)
	av := availability{r.repo}

	active := atom.NewKeySet()
	for _, a := range expr.Reduce(depexpr.ReduceOptions{Flags: r.repo.EnabledFlags(r.id)}).Select(av) {
		if k, err := atom.KeyOf(a); err == nil {
			active.Add(k)
		}
	}

	// No flags: every conditional branch.
	all := depexpr.Resolve(raw, nil, av)
	return r.dependencies(all, active.Has)
}

// dependencies builds one Dependency per distinct key among atoms.
func (r *Record) dependencies(atoms []string, active func(atom.Key) bool) []*Dependency {
	seen := atom.NewKeySet()
	var deps []*Dependency
	for _, a := range atoms {
		k, err := atom.KeyOf(a)
		if err != nil || seen.Has(k) {
			continue
		}
		seen.Add(k)
		deps = append(deps, NewDependency(r.repo, a, k, active(k)))
	}
	SortByKey(deps)
	return deps
}

// Flags returns the USE flags declared by the record.
func (r *Record) Flags() []Flag {
	r.flagsOnce.Do(func() {
		r.flags = r.loadFlags()
	})
	return r.flags
}

func (r *Record) loadFlags() []Flag {
	enabled := r.repo.EnabledFlags(r.id)

	var installed map[string]bool
	if id, ok := r.repo.FindInstalled(r.key.String()); ok {
		installed = r.repo.InstalledFlags(id)
	}

	var flags []Flag
	for _, decl := range r.repo.DeclaredFlags(r.id) {
		f := ParseFlag(decl)
		if f.Name == "" {
			continue
		}
		f.Enabled = enabled[f.Name]
		f.InstalledEnabled = installed[f.Name]
		flags = append(flags, f)
	}
	slices.SortStableFunc(flags, func(a, b Flag) int {
		return strings.Compare(a.Name, b.Name)
	})
	return flags
}

// BuiltFlags returns the USE flags the record was built with. It is empty
// unless the record is an installed version.
func (r *Record) BuiltFlags() map[string]bool {
	r.builtOnce.Do(func() {
		r.built = r.repo.InstalledFlags(r.id)
	})
	return r.built
}

// FlagsBuiltAs returns Flags with InstalledEnabled read from installed
// rather than from whichever version the package key resolves to.
func (r *Record) FlagsBuiltAs(installed *Record) []Flag {
	flags := r.Flags()
	if installed == nil {
		return flags
	}
	built := installed.BuiltFlags()
	out := make([]Flag, len(flags))
	for i, f := range flags {
		f.InstalledEnabled = built[f.Name]
		out[i] = f
	}
	return out
}

// DepsAffectedByFlag returns the dependencies that appear only when flag is
// enabled on top of an otherwise empty configuration.
func (r *Record) DepsAffectedByFlag(flag string) []*Dependency {
	expr := depexpr.Parse(r.repo.RawDependencyExpression(r.id))

	base := atom.NewKeySet()
	for _, a := range expr.Reduce(depexpr.ReduceOptions{}).Flatten() {
		if k, err := atom.KeyOf(a); err == nil {
			base.Add(k)
		}
	}

	var added []string
	for _, a := range expr.Reduce(depexpr.ReduceOptions{Flags: map[string]bool{flag: true}}).Flatten() {
		if k, err := atom.KeyOf(a); err == nil && !base.Has(k) {
			added = append(added, a)
		}
	}
	return r.dependencies(added, func(atom.Key) bool { return true })
}

// ResolveRoot creates the record for the best visible version of a.
func ResolveRoot(repo Repository, a string) (*Record, bool) {
	id, ok := repo.FindBestVisible(a)
	if !ok {
		return nil, false
	}
	key, err := atom.KeyOf(a)
	if err != nil {
		return NewRecord(repo, id), true
	}
	return newRecord(repo, id, key), true
}

type availability struct {
	repo Repository
}

func (a availability) Installed(s string) bool {
	_, ok := a.repo.FindInstalled(s)
	return ok
}

func (a availability) Installable(s string) bool {
	_, ok := a.repo.FindBestVisible(s)
	return ok
}
