// Package depexpr parses conditional dependency expressions and reduces them
// to the flat list of package atoms that apply under a USE-flag configuration.
//
// An expression is a whitespace separated sequence of atoms, all-of groups
// "( ... )", any-of groups "|| ( ... )" and USE conditionals "flag? ( ... )"
// or "!flag? ( ... )". Parsing is lenient: stray or missing parentheses and
// dangling operators are skipped, never reported.
package depexpr

import "strings"

// Kind identifies a node in an expression tree.
type Kind int

const (
	// KindAtom is a literal atom token.
	KindAtom Kind = iota
	// KindAllOf is a parenthesized group whose members all apply.
	KindAllOf
	// KindAnyOf is a "||" group satisfied by one alternative.
	KindAnyOf
	// KindConditional is a "flag?" or "!flag?" guarded group.
	KindConditional
)

// Node is one element of an expression tree.
type Node struct {
	Kind     Kind
	Atom     string
	Flag     string
	Negated  bool
	Children []Node
}

// Expr is a parsed dependency expression: a top-level all-of sequence.
type Expr []Node

// Parse builds an expression tree from raw. It never fails.
func Parse(raw string) Expr {
	p := &parser{tokens: strings.Fields(raw)}
	return p.sequence(false)
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

// sequence reads nodes until the end of input or, when nested, the closing
// parenthesis of the current group.
func (p *parser) sequence(nested bool) []Node {
	var nodes []Node
	for {
		tok, ok := p.next()
		if !ok {
			return nodes
		}

		switch {
		case tok == ")":
			if nested {
				return nodes
			}
			// unmatched at top level
		case tok == "(":
			nodes = append(nodes, Node{Kind: KindAllOf, Children: p.sequence(true)})
		case tok == "||":
			if group, ok := p.group(); ok {
				nodes = append(nodes, Node{Kind: KindAnyOf, Children: group})
			}
		case strings.HasSuffix(tok, "?"):
			flag := strings.TrimSuffix(tok, "?")
			negated := strings.HasPrefix(flag, "!")
			flag = strings.TrimPrefix(flag, "!")
			if group, ok := p.group(); ok && flag != "" {
				nodes = append(nodes, Node{Kind: KindConditional, Flag: flag, Negated: negated, Children: group})
			}
		default:
			nodes = append(nodes, Node{Kind: KindAtom, Atom: tok})
		}
	}
}

// group consumes "( ... )" if it comes next.
func (p *parser) group() ([]Node, bool) {
	if p.peek() != "(" {
		return nil, false
	}
	p.pos++
	return p.sequence(true), true
}

// String renders the expression back to its textual form.
func (e Expr) String() string {
	var parts []string
	for _, n := range e {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, " ")
}

func (n Node) String() string {
	switch n.Kind {
	case KindAtom:
		return n.Atom
	case KindAnyOf:
		return "|| ( " + Expr(n.Children).String() + " )"
	case KindConditional:
		prefix := ""
		if n.Negated {
			prefix = "!"
		}
		return prefix + n.Flag + "? ( " + Expr(n.Children).String() + " )"
	default:
		return "( " + Expr(n.Children).String() + " )"
	}
}
