package portage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wexinc/portshell/internal/atom"
)

// Fixture is a package database described in YAML:
//
//	available:
//	  - cpv: dev-lang/python-3.12.1
//	    slot: "3.12"
//	    keywords: [amd64]
//	    iuse: [+ssl, tk]
//	    rdepend: "ssl? ( dev-libs/openssl ) sys-libs/zlib"
//	installed:
//	  - cpv: dev-lang/python-3.11.8
//	    slot: "3.11"
//	    iuse: [+ssl, tk]
//	    use: [ssl]
type Fixture struct {
	Available []FixtureEntry `yaml:"available"`
	Installed []FixtureEntry `yaml:"installed"`
}

// FixtureEntry is one package version of a fixture.
type FixtureEntry struct {
	CPV      string   `yaml:"cpv"`
	Slot     string   `yaml:"slot"`
	Keywords []string `yaml:"keywords"`
	IUSE     []string `yaml:"iuse"`
	Use      []string `yaml:"use"`
	Depend   string   `yaml:"depend"`
	RDepend  string   `yaml:"rdepend"`
	PDepend  string   `yaml:"pdepend"`
	BDepend  string   `yaml:"bdepend"`
	IDepend  string   `yaml:"idepend"`
}

func (f FixtureEntry) ebuild() (*Ebuild, error) {
	cpv, err := atom.ParseCPV(f.CPV)
	if err != nil {
		return nil, err
	}
	slot := f.Slot
	if slot == "" {
		slot = "0"
	}
	return &Ebuild{
		CPV:      cpv,
		Slot:     slot,
		Keywords: f.Keywords,
		IUSE:     f.IUSE,
		Use:      f.Use,
		Depend:   f.Depend,
		RDepend:  f.RDepend,
		PDepend:  f.PDepend,
		BDepend:  f.BDepend,
		IDepend:  f.IDepend,
	}, nil
}

// ParseFixture decodes a YAML fixture into available and installed sources.
func ParseFixture(data []byte) (available, installed *MemorySource, err error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}

	available = NewMemorySource()
	for i, entry := range f.Available {
		e, err := entry.ebuild()
		if err != nil {
			return nil, nil, fmt.Errorf("available[%d]: %w", i, err)
		}
		available.Add(e)
	}

	installed = NewMemorySource()
	for i, entry := range f.Installed {
		e, err := entry.ebuild()
		if err != nil {
			return nil, nil, fmt.Errorf("installed[%d]: %w", i, err)
		}
		installed.Add(e)
	}
	return available, installed, nil
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (available, installed *MemorySource, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return ParseFixture(data)
}
