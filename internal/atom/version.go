package atom

import (
	"fmt"
	"regexp"
	"strings"
)

// versionPattern matches a Portage version: numeric components, an optional
// letter, any number of suffixes and an optional revision.
var versionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)([a-z]?)((?:_(?:alpha|beta|pre|rc|p)\d*)*)(?:-r(\d+))?$`)

var suffixPattern = regexp.MustCompile(`_(alpha|beta|pre|rc|p)(\d*)`)

// suffixRank orders version suffixes; a version without a suffix sits
// between rc and p.
var suffixRank = map[string]int{
	"alpha": 0,
	"beta":  1,
	"pre":   2,
	"rc":    3,
	"p":     5,
}

const noSuffixRank = 4

// Suffix is one _alpha/_beta/_pre/_rc/_p component of a version.
type Suffix struct {
	Name   string
	Number string
}

// Version is a parsed Portage version such as 1.2.3b_rc1-r2.
type Version struct {
	Raw      string
	Numbers  []string
	Letter   string
	Suffixes []Suffix
	Revision string
}

// ParseVersion parses a version string, with or without a revision.
func ParseVersion(s string) (*Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("invalid version %q", s)
	}

	v := &Version{
		Raw:      s,
		Numbers:  strings.Split(m[1], "."),
		Letter:   m[2],
		Revision: m[4],
	}
	for _, sm := range suffixPattern.FindAllStringSubmatch(m[3], -1) {
		v.Suffixes = append(v.Suffixes, Suffix{Name: sm[1], Number: sm[2]})
	}
	return v, nil
}

// Base returns the version without its revision.
func (v *Version) Base() string {
	if i := strings.LastIndex(v.Raw, "-r"); i >= 0 && v.Revision != "" {
		return v.Raw[:i]
	}
	return v.Raw
}

// Normalized returns the version with an explicit revision, so that 1.0 and
// 1.0-r0 normalize to the same string.
func (v *Version) Normalized() string {
	rev := trimZeros(v.Revision)
	if rev == "" {
		rev = "0"
	}
	return v.Base() + "-r" + rev
}

func (v *Version) String() string {
	return v.Raw
}

// Compare returns -1, 0 or 1 following the Portage ordering rules.
func (v *Version) Compare(o *Version) int {
	if c := v.CompareBase(o); c != 0 {
		return c
	}
	return compareInts(v.Revision, o.Revision)
}

// CompareBase compares two versions ignoring revisions.
func (v *Version) CompareBase(o *Version) int {
	if c := compareInts(v.Numbers[0], o.Numbers[0]); c != 0 {
		return c
	}

	n := min(len(v.Numbers), len(o.Numbers))
	for i := 1; i < n; i++ {
		a, b := v.Numbers[i], o.Numbers[i]
		var c int
		if strings.HasPrefix(a, "0") || strings.HasPrefix(b, "0") {
			c = strings.Compare(strings.TrimRight(a, "0"), strings.TrimRight(b, "0"))
		} else {
			c = compareInts(a, b)
		}
		if c != 0 {
			return c
		}
	}
	if c := compareLen(len(v.Numbers), len(o.Numbers)); c != 0 {
		return c
	}

	if c := strings.Compare(v.Letter, o.Letter); c != 0 {
		return c
	}

	for i := 0; i < max(len(v.Suffixes), len(o.Suffixes)); i++ {
		ra, na := suffixAt(v.Suffixes, i)
		rb, nb := suffixAt(o.Suffixes, i)
		if c := compareLen(ra, rb); c != 0 {
			return c
		}
		if c := compareInts(na, nb); c != 0 {
			return c
		}
	}
	return 0
}

func suffixAt(s []Suffix, i int) (int, string) {
	if i >= len(s) {
		return noSuffixRank, ""
	}
	return suffixRank[s[i].Name], s[i].Number
}

// compareInts compares two decimal strings of arbitrary length; empty
// strings count as zero.
func compareInts(a, b string) int {
	a, b = trimZeros(a), trimZeros(b)
	if c := compareLen(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func trimZeros(s string) string {
	return strings.TrimLeft(s, "0")
}

func compareLen(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
