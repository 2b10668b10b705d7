package portage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wexinc/portshell/internal/atom"
)

// packageUse is one package.use style line: an atom followed by flags.
type packageUse struct {
	atom  *atom.Atom
	flags []string
}

// Settings holds the USE and keyword configuration. Evaluating the enabled
// flags of a package loads that package into shared state, so every
// evaluation runs inside the settings lock and is reset before it is
// released.
type Settings struct {
	global         []string
	packageUse     []packageUse
	acceptKeywords map[string]bool

	mu sync.Mutex
	// Per-package state, only valid while mu is held.
	pkg *Ebuild
	use map[string]bool
}

// NewSettings builds settings from a global USE list, package.use lines
// ("cat/pkg flag -flag") and accepted keywords.
func NewSettings(use, pkgUse, acceptKeywords []string) (*Settings, error) {
	s := &Settings{
		global:         use,
		acceptKeywords: make(map[string]bool, len(acceptKeywords)),
	}
	for _, kw := range acceptKeywords {
		s.acceptKeywords[kw] = true
	}
	for _, line := range pkgUse {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		a, err := atom.Parse(fields[0])
		if err != nil {
			return nil, fmt.Errorf("package use %q: %w", line, err)
		}
		s.packageUse = append(s.packageUse, packageUse{atom: a, flags: fields[1:]})
	}
	return s, nil
}

// EnabledFlags returns the effective USE flags of e: IUSE defaults, then
// the global USE list, then matching package.use lines, restricted to IUSE.
func (s *Settings) EnabledFlags(e *Ebuild) map[string]bool {
	var enabled map[string]bool
	s.withPackage(e, func() {
		enabled = make(map[string]bool, len(s.use))
		for f, on := range s.use {
			if on {
				enabled[f] = true
			}
		}
	})
	return enabled
}

// withPackage runs fn with e loaded as the current package.
func (s *Settings) withPackage(e *Ebuild, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reset()

	s.setPackage(e)
	fn()
}

func (s *Settings) setPackage(e *Ebuild) {
	s.pkg = e
	s.use = make(map[string]bool)

	for _, f := range e.IUSE {
		if strings.HasPrefix(f, "+") {
			s.use[f[1:]] = true
		}
	}
	s.apply(s.global)
	for _, pu := range s.packageUse {
		if e.matches(pu.atom) {
			s.apply(pu.flags)
		}
	}

	declared := make(map[string]bool, len(e.IUSE))
	for _, f := range e.FlagNames() {
		declared[f] = true
	}
	for f := range s.use {
		if !declared[f] {
			delete(s.use, f)
		}
	}
}

func (s *Settings) apply(tokens []string) {
	for _, t := range tokens {
		switch {
		case t == "-*":
			clear(s.use)
		case strings.HasPrefix(t, "-"):
			s.use[t[1:]] = false
		case t != "":
			s.use[t] = true
		}
	}
}

func (s *Settings) reset() {
	s.pkg = nil
	s.use = nil
}

// Visible reports whether e carries an accepted keyword. Accepting a testing
// keyword ("~amd64") also accepts the stable one. "**" accepts everything,
// "*" accepts any stable keyword and "~*" any testing one.
func (s *Settings) Visible(e *Ebuild) bool {
	if s.acceptKeywords["**"] {
		return true
	}
	for _, kw := range e.Keywords {
		if s.acceptKeywords[kw] || s.acceptKeywords["~"+kw] {
			return true
		}
		testing := strings.HasPrefix(kw, "~")
		if testing && s.acceptKeywords["~*"] {
			return true
		}
		if !testing && !strings.HasPrefix(kw, "-") && s.acceptKeywords["*"] {
			return true
		}
	}
	return false
}
