package portage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wexinc/portshell/internal/atom"
	"github.com/wexinc/portshell/internal/logging"
)

// categoryIndex loads one category directory at a time and keeps the result.
type categoryIndex struct {
	root   string
	load   func(dir, category string) ([]*Ebuild, error)
	mu     sync.Mutex
	loaded map[string]map[string][]*Ebuild
}

func newCategoryIndex(root string, load func(dir, category string) ([]*Ebuild, error)) *categoryIndex {
	return &categoryIndex{
		root:   root,
		load:   load,
		loaded: make(map[string]map[string][]*Ebuild),
	}
}

func (c *categoryIndex) versions(cp string) ([]*Ebuild, error) {
	category, _, ok := strings.Cut(cp, "/")
	if !ok {
		return nil, fmt.Errorf("invalid package %q", cp)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	byCP, ok := c.loaded[category]
	if !ok {
		ebuilds, err := c.load(filepath.Join(c.root, category), category)
		if err != nil {
			return nil, err
		}
		byCP = make(map[string][]*Ebuild)
		for _, e := range ebuilds {
			byCP[e.CPV.CP()] = append(byCP[e.CPV.CP()], e)
		}
		c.loaded[category] = byCP
		logging.Debug("category indexed", "root", c.root, "category", category, "versions", len(ebuilds))
	}
	return byCP[cp], nil
}

// MetadataCache reads the md5-cache of an ebuild repository: one file per
// package version holding KEY=VALUE lines.
type MetadataCache struct {
	index *categoryIndex
}

// NewMetadataCache opens the cache rooted at dir.
func NewMetadataCache(dir string) (*MetadataCache, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	return &MetadataCache{index: newCategoryIndex(dir, loadMetadataCategory)}, nil
}

// Versions implements Source.
func (m *MetadataCache) Versions(cp string) ([]*Ebuild, error) {
	return m.index.versions(cp)
}

func loadMetadataCategory(dir, category string) ([]*Ebuild, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ebuilds []*Ebuild
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cpv, err := atom.ParseCPV(category + "/" + entry.Name())
		if err != nil {
			continue
		}
		vars, err := readKeyValues(filepath.Join(dir, entry.Name()))
		if err != nil {
			logging.Warn("unreadable metadata", "cpv", cpv.String(), "error", err)
			continue
		}
		ebuilds = append(ebuilds, ebuildFromVars(cpv, vars))
	}
	return ebuilds, nil
}

func readKeyValues(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), "=")
		if ok {
			vars[k] = v
		}
	}
	return vars, scanner.Err()
}

// InstalledDB reads the installed-package database (/var/db/pkg): one
// directory per installed version holding one file per variable.
type InstalledDB struct {
	index *categoryIndex
}

// NewInstalledDB opens the database rooted at dir.
func NewInstalledDB(dir string) (*InstalledDB, error) {
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	return &InstalledDB{index: newCategoryIndex(dir, loadInstalledCategory)}, nil
}

// Versions implements Source.
func (d *InstalledDB) Versions(cp string) ([]*Ebuild, error) {
	return d.index.versions(cp)
}

var installedVars = []string{"SLOT", "KEYWORDS", "IUSE", "USE", "DEPEND", "RDEPEND", "PDEPEND", "BDEPEND", "IDEPEND"}

func loadInstalledCategory(dir, category string) ([]*Ebuild, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ebuilds []*Ebuild
	for _, entry := range entries {
		// Packages being merged are left as -MERGING-<pf>.
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), "-MERGING-") {
			continue
		}
		cpv, err := atom.ParseCPV(category + "/" + entry.Name())
		if err != nil {
			continue
		}
		vars := make(map[string]string, len(installedVars))
		for _, name := range installedVars {
			data, err := os.ReadFile(filepath.Join(dir, entry.Name(), name))
			if err == nil {
				vars[name] = strings.TrimSpace(string(data))
			}
		}
		ebuilds = append(ebuilds, ebuildFromVars(cpv, vars))
	}
	return ebuilds, nil
}

func ebuildFromVars(cpv *atom.CPV, vars map[string]string) *Ebuild {
	slot := vars["SLOT"]
	if slot == "" {
		slot = "0"
	}
	return &Ebuild{
		CPV:      cpv,
		Slot:     slot,
		Keywords: strings.Fields(vars["KEYWORDS"]),
		IUSE:     strings.Fields(vars["IUSE"]),
		Use:      strings.Fields(vars["USE"]),
		Depend:   vars["DEPEND"],
		RDepend:  vars["RDEPEND"],
		PDepend:  vars["PDEPEND"],
		BDepend:  vars["BDEPEND"],
		IDepend:  vars["IDEPEND"],
	}
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
