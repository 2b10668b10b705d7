package depexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeAvailability answers from fixed sets of atoms.
type fakeAvailability struct {
	installed   map[string]bool
	installable map[string]bool
}

func (f fakeAvailability) Installed(a string) bool   { return f.installed[a] }
func (f fakeAvailability) Installable(a string) bool { return f.installable[a] || f.installed[a] }

func set(atoms ...string) map[string]bool {
	m := make(map[string]bool, len(atoms))
	for _, a := range atoms {
		m[a] = true
	}
	return m
}

func TestParse_RoundTrip(t *testing.T) {
	raw := "a/a ssl? ( b/b !static? ( c/c ) ) || ( d/d ( e/e f/f ) )"
	assert.Equal(t, raw, Parse(raw).String())
}

func TestParse_Lenient(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"stray close", "a/a ) b/b", "a/a b/b"},
		{"missing close", "x? ( a/a b/b", "x? ( a/a b/b )"},
		{"dangling any-of", "a/a ||", "a/a"},
		{"dangling conditional", "ssl? a/a", "a/a"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw).String())
		})
	}
}

func TestReduce(t *testing.T) {
	raw := "a/a ssl? ( b/b ) !ssl? ( c/c ) gtk? ( || ( d/d e/e ) )"

	tests := []struct {
		name string
		opts ReduceOptions
		want string
	}{
		{"no flags", ReduceOptions{}, "a/a c/c"},
		{"ssl", ReduceOptions{Flags: set("ssl")}, "a/a b/b"},
		{"gtk", ReduceOptions{Flags: set("gtk")}, "a/a c/c || ( d/d e/e )"},
		{"match all", ReduceOptions{MatchAll: true}, "a/a b/b c/c || ( d/d e/e )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(raw).Reduce(tt.opts).String())
		})
	}
}

func TestReduce_ConditionalInsideAnyOf(t *testing.T) {
	raw := "|| ( a/a x? ( b/b c/c ) y? ( d/d ) )"

	got := Parse(raw).Reduce(ReduceOptions{Flags: set("x")})
	assert.Equal(t, "|| ( a/a ( b/b c/c ) )", got.String())

	got = Parse(raw).Reduce(ReduceOptions{Flags: set("y")})
	assert.Equal(t, "|| ( a/a d/d )", got.String())

	got = Parse("|| ( x? ( a/a ) )").Reduce(ReduceOptions{})
	assert.Empty(t, got)
}

func TestSelect_AnyOf(t *testing.T) {
	expr := Parse("|| ( a/one a/two a/three )")

	tests := []struct {
		name string
		av   fakeAvailability
		want []string
	}{
		{
			name: "second installed wins over first installable",
			av:   fakeAvailability{installed: set("a/two"), installable: set("a/one")},
			want: []string{"a/two"},
		},
		{
			name: "first installable when none installed",
			av:   fakeAvailability{installable: set("a/one", "a/three")},
			want: []string{"a/one"},
		},
		{
			name: "later installable",
			av:   fakeAvailability{installable: set("a/three")},
			want: []string{"a/three"},
		},
		{
			name: "first listed as fallback",
			av:   fakeAvailability{},
			want: []string{"a/one"},
		},
		{
			name: "first of several installed",
			av:   fakeAvailability{installed: set("a/three", "a/two")},
			want: []string{"a/two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expr.Select(tt.av))
		})
	}
}

func TestSelect_AllOfAlternative(t *testing.T) {
	expr := Parse("x/x || ( ( a/a b/b ) c/c )")

	got := expr.Select(fakeAvailability{installed: set("a/a", "b/b")})
	assert.Equal(t, []string{"x/x", "a/a", "b/b"}, got)

	// One member missing disqualifies the group.
	got = expr.Select(fakeAvailability{installed: set("a/a", "c/c")})
	assert.Equal(t, []string{"x/x", "c/c"}, got)

	// Fallback yields the whole group.
	got = expr.Select(fakeAvailability{})
	assert.Equal(t, []string{"x/x", "a/a", "b/b"}, got)
}

func TestSelect_Cleanup(t *testing.T) {
	expr := Parse("a/a !b/b !!c/c a/a garbage >=d/d ?? e/e")
	assert.Equal(t, []string{"a/a", "e/e"}, expr.Select(fakeAvailability{}))
}

func TestFlatten(t *testing.T) {
	expr := Parse("a/a || ( b/b c/c ) !d/d b/b")
	assert.Equal(t, []string{"a/a", "b/b", "c/c"}, expr.Flatten())
}

func TestResolve(t *testing.T) {
	raw := "a/a ssl? ( b/b ) || ( c/c d/d )"
	av := fakeAvailability{installed: set("d/d")}

	// An empty flag set matches all branches.
	assert.Equal(t, []string{"a/a", "b/b", "d/d"}, Resolve(raw, nil, av))
	assert.Equal(t, []string{"a/a", "d/d"}, Resolve(raw, set("gtk"), av))
	assert.Equal(t, []string{"a/a", "b/b", "d/d"}, Resolve(raw, set("ssl"), av))
}
