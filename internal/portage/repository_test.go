package portage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = `
available:
  - cpv: dev-lang/python-3.11.8
    slot: "3.11"
    keywords: [amd64]
    iuse: [+ssl, tk, -debug]
    depend: "ssl? ( dev-libs/openssl ) sys-libs/zlib"
    rdepend: "tk? ( dev-lang/tk )"
  - cpv: dev-lang/python-3.12.1
    slot: "3.12"
    keywords: [amd64]
    iuse: [+ssl, tk]
  - cpv: dev-lang/python-3.13.0_rc1
    slot: "3.13"
    keywords: ["~amd64"]
  - cpv: dev-libs/openssl-3.1.4
    keywords: [amd64]
  - cpv: sys-libs/zlib-1.3
    keywords: [amd64]
installed:
  - cpv: dev-lang/python-3.11.8
    slot: "3.11"
    iuse: [+ssl, tk, -debug]
    use: [ssl, debug, amd64, elibc_glibc]
  - cpv: sys-libs/zlib-1.2.13-r1
`

func newTestRepository(t *testing.T, use, pkgUse, keywords []string) *Repository {
	t.Helper()
	available, installed, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	settings, err := NewSettings(use, pkgUse, keywords)
	require.NoError(t, err)
	return NewRepository(available, installed, settings)
}

func TestRepository_FindBestVisible(t *testing.T) {
	r := newTestRepository(t, nil, nil, []string{"amd64"})

	tests := []struct {
		atom string
		want string
		ok   bool
	}{
		{"dev-lang/python", "dev-lang/python-3.12.1", true},
		{"dev-lang/python:3.11", "dev-lang/python-3.11.8", true},
		{"<dev-lang/python-3.12", "dev-lang/python-3.11.8", true},
		{"dev-lang/python:3.13", "", false},
		{"app-misc/missing", "", false},
		{"garbage", "", false},
		{"!dev-lang/python", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.atom, func(t *testing.T) {
			got, ok := r.FindBestVisible(tt.atom)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_TestingKeywords(t *testing.T) {
	r := newTestRepository(t, nil, nil, []string{"~amd64"})

	got, ok := r.FindBestVisible("dev-lang/python")
	require.True(t, ok)
	assert.Equal(t, "dev-lang/python-3.13.0_rc1", got)

	r = newTestRepository(t, nil, nil, []string{"**"})
	_, ok = r.FindBestVisible("dev-lang/python:3.13")
	assert.True(t, ok)
}

func TestRepository_FindInstalled(t *testing.T) {
	r := newTestRepository(t, nil, nil, []string{"amd64"})

	got, ok := r.FindInstalled("sys-libs/zlib")
	require.True(t, ok)
	assert.Equal(t, "sys-libs/zlib-1.2.13-r1", got)

	_, ok = r.FindInstalled("dev-libs/openssl")
	assert.False(t, ok)

	// Installed versions ignore keywords.
	_, ok = r.FindInstalled("dev-lang/python:3.11")
	assert.True(t, ok)
}

func TestRepository_Metadata(t *testing.T) {
	r := newTestRepository(t, nil, nil, []string{"amd64"})

	assert.Equal(t, "ssl? ( dev-libs/openssl ) sys-libs/zlib tk? ( dev-lang/tk )",
		r.RawDependencyExpression("dev-lang/python-3.11.8"))
	assert.Equal(t, []string{"+ssl", "tk", "-debug"}, r.DeclaredFlags("dev-lang/python-3.11.8"))
	assert.Empty(t, r.RawDependencyExpression("dev-lang/python-9"))
	assert.Empty(t, r.DeclaredFlags("nonsense"))

	// Only the installed version carries build-time flags.
	assert.Equal(t, map[string]bool{"ssl": true, "debug": true}, r.InstalledFlags("dev-lang/python-3.11.8"))
	assert.Empty(t, r.InstalledFlags("dev-lang/python-3.12.1"))
}

func TestRepository_EnabledFlags(t *testing.T) {
	tests := []struct {
		name   string
		use    []string
		pkgUse []string
		want   map[string]bool
	}{
		{
			name: "defaults",
			want: map[string]bool{"ssl": true},
		},
		{
			name: "global use",
			use:  []string{"tk", "-ssl", "X"},
			want: map[string]bool{"tk": true},
		},
		{
			name:   "package use overrides global",
			use:    []string{"tk"},
			pkgUse: []string{"dev-lang/python:3.11 -tk debug", "dev-lang/python:3.12 -ssl"},
			want:   map[string]bool{"ssl": true, "debug": true},
		},
		{
			name: "reset all",
			use:  []string{"-*", "tk"},
			want: map[string]bool{"tk": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepository(t, tt.use, tt.pkgUse, []string{"amd64"})
			assert.Equal(t, tt.want, r.EnabledFlags("dev-lang/python-3.11.8"))
		})
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	_, _, err := ParseFixture([]byte("available:\n  - cpv: not-a-cpv\n"))
	assert.ErrorContains(t, err, "available[0]")

	_, _, err = ParseFixture([]byte("available: [:"))
	assert.Error(t, err)
}

func TestNewSettings_InvalidPackageUse(t *testing.T) {
	_, err := NewSettings(nil, []string{">=broken ssl"}, nil)
	assert.Error(t, err)
}
