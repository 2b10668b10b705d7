package depexpr

import (
	"github.com/wexinc/portshell/internal/atom"
)

// ReduceOptions selects which conditional branches survive reduction.
type ReduceOptions struct {
	// Flags is the set of enabled USE flags.
	Flags map[string]bool
	// MatchAll keeps every conditional branch regardless of Flags.
	MatchAll bool
}

func (o ReduceOptions) holds(n Node) bool {
	if o.MatchAll {
		return true
	}
	return o.Flags[n.Flag] != n.Negated
}

// Reduce evaluates USE conditionals. Conditional groups that hold are spliced
// into their parent (or become an all-of alternative inside an any-of group);
// the others are dropped, as are groups left empty.
func (e Expr) Reduce(opts ReduceOptions) Expr {
	return reduce(e, opts, false)
}

func reduce(nodes []Node, opts ReduceOptions, inAnyOf bool) []Node {
	var out []Node
	for _, n := range nodes {
		switch n.Kind {
		case KindAtom:
			out = append(out, n)
		case KindConditional:
			if !opts.holds(n) {
				continue
			}
			children := reduce(n.Children, opts, false)
			if inAnyOf {
				if alt, ok := alternative(children); ok {
					out = append(out, alt)
				}
				continue
			}
			out = append(out, children...)
		case KindAllOf:
			children := reduce(n.Children, opts, false)
			if inAnyOf {
				if alt, ok := alternative(children); ok {
					out = append(out, alt)
				}
				continue
			}
			out = append(out, children...)
		case KindAnyOf:
			children := reduce(n.Children, opts, true)
			if len(children) > 0 {
				out = append(out, Node{Kind: KindAnyOf, Children: children})
			}
		}
	}
	return out
}

// alternative turns a reduced group into one any-of alternative.
func alternative(children []Node) (Node, bool) {
	switch len(children) {
	case 0:
		return Node{}, false
	case 1:
		return children[0], true
	default:
		return Node{Kind: KindAllOf, Children: children}, true
	}
}

// Availability answers the questions the any-of selection asks about an atom.
type Availability interface {
	Installed(atom string) bool
	Installable(atom string) bool
}

// Select resolves every any-of group of a reduced expression to a single
// alternative and returns the resulting atoms in order, de-duplicated, with
// blockers and malformed atoms removed.
//
// An any-of group picks, in declaration order, the first alternative that is
// installed; failing that the first that is installable; failing that the
// first alternative. An all-of alternative qualifies only when every atom in it
// does, and contributes all of its atoms when chosen.
func (e Expr) Select(av Availability) []string {
	var atoms []string
	selectInto(&atoms, e, av)
	return cleanup(atoms)
}

func selectInto(dst *[]string, nodes []Node, av Availability) {
	for _, n := range nodes {
		switch n.Kind {
		case KindAtom:
			*dst = append(*dst, n.Atom)
		case KindAllOf, KindConditional:
			selectInto(dst, n.Children, av)
		case KindAnyOf:
			selectInto(dst, []Node{chooseAlternative(n.Children, av)}, av)
		}
	}
}

func chooseAlternative(alts []Node, av Availability) Node {
	for _, alt := range alts {
		if every(alt, av.Installed) {
			return alt
		}
	}
	for _, alt := range alts {
		if every(alt, av.Installable) {
			return alt
		}
	}
	return alts[0]
}

func every(n Node, pred func(string) bool) bool {
	for _, a := range (Expr{n}).Atoms() {
		if !pred(a) {
			return false
		}
	}
	return true
}

// Atoms returns every atom token in the tree in order, including all
// alternatives of any-of groups.
func (e Expr) Atoms() []string {
	var atoms []string
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Kind == KindAtom {
				atoms = append(atoms, n.Atom)
				continue
			}
			walk(n.Children)
		}
	}
	walk(e)
	return atoms
}

// Flatten returns the valid atoms of the expression without choosing between
// any-of alternatives, de-duplicated.
func (e Expr) Flatten() []string {
	return cleanup(e.Atoms())
}

func cleanup(atoms []string) []string {
	seen := make(map[string]bool, len(atoms))
	out := make([]string, 0, len(atoms))
	for _, a := range atoms {
		if seen[a] || atom.IsBlocker(a) || !atom.IsValid(a) {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Resolve reduces raw under flags and selects any-of alternatives. An empty
// flag set matches every conditional branch.
func Resolve(raw string, flags map[string]bool, av Availability) []string {
	opts := ReduceOptions{Flags: flags, MatchAll: len(flags) == 0}
	return Parse(raw).Reduce(opts).Select(av)
}
