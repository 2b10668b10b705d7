package portage

import (
	"github.com/wexinc/portshell/internal/atom"
	"github.com/wexinc/portshell/internal/logging"
)

// Repository answers package queries against an available-package source
// and an installed-package source. Version identifiers it returns and
// accepts are full category/name-version strings.
type Repository struct {
	available Source
	installed Source
	settings  *Settings
}

// NewRepository creates a repository. settings decides visibility and USE.
func NewRepository(available, installed Source, settings *Settings) *Repository {
	return &Repository{
		available: available,
		installed: installed,
		settings:  settings,
	}
}

// FindBestVisible returns the highest visible version matching a.
func (r *Repository) FindBestVisible(a string) (string, bool) {
	e := r.best(r.available, a, r.settings.Visible)
	if e == nil {
		return "", false
	}
	return e.CPV.String(), true
}

// FindInstalled returns the highest installed version matching a.
func (r *Repository) FindInstalled(a string) (string, bool) {
	e := r.best(r.installed, a, nil)
	if e == nil {
		return "", false
	}
	return e.CPV.String(), true
}

func (r *Repository) best(src Source, s string, visible func(*Ebuild) bool) *Ebuild {
	a, err := atom.Parse(s)
	if err != nil || a.Blocker != 0 {
		return nil
	}
	versions, err := src.Versions(a.CP())
	if err != nil {
		logging.Warn("package lookup failed", "atom", s, "error", err)
		return nil
	}

	var best *Ebuild
	for _, e := range versions {
		if !e.matches(a) || (visible != nil && !visible(e)) {
			continue
		}
		if best == nil || e.CPV.Version.Compare(best.CPV.Version) > 0 {
			best = e
		}
	}
	return best
}

// lookup finds the metadata of a version, preferring the available source.
func (r *Repository) lookup(cpv string) *Ebuild {
	if e := find(r.available, cpv); e != nil {
		return e
	}
	return find(r.installed, cpv)
}

func find(src Source, s string) *Ebuild {
	cpv, err := atom.ParseCPV(s)
	if err != nil {
		return nil
	}
	versions, err := src.Versions(cpv.CP())
	if err != nil {
		return nil
	}
	for _, e := range versions {
		if e.CPV.Version.Raw == cpv.Version.Raw {
			return e
		}
	}
	return nil
}

// RawDependencyExpression returns the combined dependency string of cpv.
func (r *Repository) RawDependencyExpression(cpv string) string {
	if e := r.lookup(cpv); e != nil {
		return e.DependencyString()
	}
	return ""
}

// DeclaredFlags returns the IUSE of cpv, default markers included.
func (r *Repository) DeclaredFlags(cpv string) []string {
	if e := r.lookup(cpv); e != nil {
		return e.IUSE
	}
	return nil
}

// EnabledFlags returns the flags the current configuration enables for cpv.
func (r *Repository) EnabledFlags(cpv string) map[string]bool {
	e := r.lookup(cpv)
	if e == nil {
		return map[string]bool{}
	}
	return r.settings.EnabledFlags(e)
}

// InstalledFlags returns the declared flags cpv was built with.
func (r *Repository) InstalledFlags(cpv string) map[string]bool {
	e := find(r.installed, cpv)
	if e == nil {
		return map[string]bool{}
	}
	declared := make(map[string]bool, len(e.IUSE))
	for _, f := range e.FlagNames() {
		declared[f] = true
	}
	flags := make(map[string]bool)
	for _, f := range e.Use {
		if declared[f] {
			flags[f] = true
		}
	}
	return flags
}
