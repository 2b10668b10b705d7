package atom

import (
	"slices"
	"strings"
)

// Key identifies a package independently of any version constraint:
// category/name plus an optional slot, e.g. "dev-lang/python:3.12".
type Key struct {
	CP   string
	Slot string
}

// KeyOf parses s as an atom and returns its key.
func KeyOf(s string) (Key, error) {
	a, err := Parse(s)
	if err != nil {
		return Key{}, err
	}
	return a.Key(), nil
}

// ParseKey parses the string form produced by Key.String.
func ParseKey(s string) Key {
	cp, slot, _ := strings.Cut(s, ":")
	return Key{CP: cp, Slot: slot}
}

func (k Key) String() string {
	if k.Slot == "" {
		return k.CP
	}
	return k.CP + ":" + k.Slot
}

// Less orders keys by their string form.
func (k Key) Less(o Key) bool {
	return k.String() < o.String()
}

// KeySet is a set of package keys.
type KeySet map[Key]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts k.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Union adds every key of o to s.
func (s KeySet) Union(o KeySet) {
	for k := range o {
		s[k] = struct{}{}
	}
}

// Sorted returns the keys in string order.
func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
