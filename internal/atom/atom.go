// Package atom parses Portage package atoms and versions into the normalized
// identities used by the dependency explorer.
//
// An atom is a textual package constraint such as ">=dev-libs/openssl-3.0:0=[ssl]".
// Only the parts needed to identify a package (category, name, slot) and to
// match a version against an operator are interpreted; USE dependencies and
// repository qualifiers are recognized and carried along untouched.
package atom

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator is a version comparison operator prefix.
type Operator string

// Version operators recognized in atoms.
const (
	OpNone         Operator = ""
	OpEqual        Operator = "="
	OpApproximate  Operator = "~"
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

var (
	categoryPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_-]*$`)
	slotPattern     = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9+_.-]*$`)
)

// Atom is a parsed package atom.
type Atom struct {
	Raw      string
	Blocker  int
	Op       Operator
	Category string
	Name     string
	Version  *Version
	Wildcard bool
	Slot     string
	SubSlot  string
	SlotOp   string
	Repo     string
	UseDeps  []string
}

// Parse parses an atom, including blockers.
func Parse(s string) (*Atom, error) {
	a := &Atom{Raw: s}
	rest := strings.TrimSpace(s)
	if rest == "" {
		return nil, fmt.Errorf("empty atom")
	}

	switch {
	case strings.HasPrefix(rest, "!!"):
		a.Blocker = 2
		rest = rest[2:]
	case strings.HasPrefix(rest, "!"):
		a.Blocker = 1
		rest = rest[1:]
	}

	if i := strings.Index(rest, "["); i >= 0 {
		if !strings.HasSuffix(rest, "]") {
			return nil, fmt.Errorf("atom %q: unterminated USE dependency", s)
		}
		a.UseDeps = strings.Split(rest[i+1:len(rest)-1], ",")
		rest = rest[:i]
	}

	if i := strings.Index(rest, "::"); i >= 0 {
		a.Repo = rest[i+2:]
		rest = rest[:i]
		if a.Repo == "" {
			return nil, fmt.Errorf("atom %q: empty repository", s)
		}
	}

	if i := strings.Index(rest, ":"); i >= 0 {
		if err := a.parseSlot(rest[i+1:]); err != nil {
			return nil, fmt.Errorf("atom %q: %w", s, err)
		}
		rest = rest[:i]
	}

	for _, op := range []Operator{OpGreaterEqual, OpLessEqual, OpGreater, OpLess, OpEqual, OpApproximate} {
		if strings.HasPrefix(rest, string(op)) {
			a.Op = op
			rest = rest[len(op):]
			break
		}
	}

	if a.Op == OpEqual && strings.HasSuffix(rest, "*") {
		a.Wildcard = true
		rest = strings.TrimSuffix(rest, "*")
	}

	slash := strings.Index(rest, "/")
	if slash <= 0 || strings.Count(rest, "/") != 1 {
		return nil, fmt.Errorf("atom %q: missing category", s)
	}
	a.Category = rest[:slash]
	pkg := rest[slash+1:]
	if !categoryPattern.MatchString(a.Category) {
		return nil, fmt.Errorf("atom %q: invalid category", s)
	}

	if a.Op != OpNone {
		name, ver, ok := splitVersion(pkg)
		if !ok {
			return nil, fmt.Errorf("atom %q: operator without version", s)
		}
		v, err := ParseVersion(ver)
		if err != nil {
			return nil, fmt.Errorf("atom %q: %w", s, err)
		}
		if a.Op == OpApproximate && v.Revision != "" {
			return nil, fmt.Errorf("atom %q: ~ does not take a revision", s)
		}
		a.Name = name
		a.Version = v
	} else {
		if _, _, ok := splitVersion(pkg); ok {
			return nil, fmt.Errorf("atom %q: version without operator", s)
		}
		a.Name = pkg
	}
	if a.Wildcard && a.Version == nil {
		return nil, fmt.Errorf("atom %q: wildcard without version", s)
	}

	if !namePattern.MatchString(a.Name) {
		return nil, fmt.Errorf("atom %q: invalid package name", s)
	}
	return a, nil
}

func (a *Atom) parseSlot(s string) error {
	switch s {
	case "":
		return fmt.Errorf("empty slot")
	case "*", "=":
		a.SlotOp = s
		return nil
	}
	if strings.HasSuffix(s, "=") {
		a.SlotOp = "="
		s = strings.TrimSuffix(s, "=")
	}
	slot, sub, _ := strings.Cut(s, "/")
	if !slotPattern.MatchString(slot) || (sub != "" && !slotPattern.MatchString(sub)) {
		return fmt.Errorf("invalid slot %q", s)
	}
	a.Slot, a.SubSlot = slot, sub
	return nil
}

// IsValid reports whether s is a well-formed, non-blocker atom.
func IsValid(s string) bool {
	a, err := Parse(s)
	return err == nil && a.Blocker == 0
}

// IsBlocker reports whether s is written as a blocker.
func IsBlocker(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "!")
}

// CP returns the category/name part of the atom.
func (a *Atom) CP() string {
	return a.Category + "/" + a.Name
}

// Key returns the normalized identity of the atom. The slot is kept only
// when it is meaningful: "0" and "*" are dropped.
func (a *Atom) Key() Key {
	k := Key{CP: a.CP()}
	if a.Slot != "" && a.Slot != "0" {
		k.Slot = a.Slot
	}
	return k
}

// Matches reports whether the given category/name, version and slot satisfy
// the atom. USE dependencies and repositories are not checked.
func (a *Atom) Matches(cp string, v *Version, slot string) bool {
	if cp != a.CP() {
		return false
	}
	if a.Slot != "" {
		s, _, _ := strings.Cut(slot, "/")
		if s == "" {
			s = "0"
		}
		if s != a.Slot {
			return false
		}
	}
	if a.Version == nil {
		return true
	}
	if v == nil {
		return false
	}

	switch a.Op {
	case OpEqual:
		if a.Wildcard {
			return strings.HasPrefix(v.Raw, a.Version.Raw)
		}
		return v.Compare(a.Version) == 0
	case OpApproximate:
		return v.CompareBase(a.Version) == 0
	case OpGreater:
		return v.Compare(a.Version) > 0
	case OpGreaterEqual:
		return v.Compare(a.Version) >= 0
	case OpLess:
		return v.Compare(a.Version) < 0
	case OpLessEqual:
		return v.Compare(a.Version) <= 0
	}
	return false
}

// CPV is a split category/name-version string such as "dev-lang/python-3.12.1-r1".
type CPV struct {
	Category string
	Name     string
	Version  *Version
}

// ParseCPV splits a full package version string.
func ParseCPV(s string) (*CPV, error) {
	cat, pf, ok := strings.Cut(s, "/")
	if !ok || !categoryPattern.MatchString(cat) {
		return nil, fmt.Errorf("invalid cpv %q", s)
	}
	name, ver, ok := splitVersion(pf)
	if !ok || !namePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid cpv %q", s)
	}
	v, err := ParseVersion(ver)
	if err != nil {
		return nil, fmt.Errorf("invalid cpv %q: %w", s, err)
	}
	return &CPV{Category: cat, Name: name, Version: v}, nil
}

// CP returns category/name.
func (c *CPV) CP() string {
	return c.Category + "/" + c.Name
}

func (c *CPV) String() string {
	return c.CP() + "-" + c.Version.Raw
}

// splitVersion splits "name-1.2-r3" into name and version. The version starts
// at the first hyphen whose remainder is a valid version.
func splitVersion(pf string) (string, string, bool) {
	for i := 0; i < len(pf); i++ {
		if pf[i] != '-' || i == 0 {
			continue
		}
		if versionPattern.MatchString(pf[i+1:]) {
			return pf[:i], pf[i+1:], true
		}
	}
	return pf, "", false
}
