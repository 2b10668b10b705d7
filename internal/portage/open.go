package portage

import (
	perrors "github.com/wexinc/portshell/internal/errors"
	"github.com/wexinc/portshell/internal/logging"
)

// Options selects and configures the package database.
type Options struct {
	// Fixture, when set, replaces the on-disk databases with a YAML file.
	Fixture        string
	EbuildCache    string
	InstalledDB    string
	Use            []string
	PackageUse     []string
	AcceptKeywords []string
	CacheSize      int
}

// Open builds the repository described by opts.
func Open(opts Options) (*CachedRepository, error) {
	settings, err := NewSettings(opts.Use, opts.PackageUse, opts.AcceptKeywords)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.ErrConfig, "invalid portage.package_use")
	}

	var available, installed Source
	if opts.Fixture != "" {
		a, i, err := LoadFixture(opts.Fixture)
		if err != nil {
			return nil, perrors.FixtureParseError(opts.Fixture, err)
		}
		logging.Info("fixture loaded", "path", opts.Fixture, "available", a.Len(), "installed", i.Len())
		available, installed = a, i
	} else {
		available, err = NewMetadataCache(opts.EbuildCache)
		if err != nil {
			return nil, perrors.RepositoryUnavailable(opts.EbuildCache, err)
		}
		installed, err = NewInstalledDB(opts.InstalledDB)
		if err != nil {
			return nil, perrors.RepositoryUnavailable(opts.InstalledDB, err)
		}
		logging.Info("package database opened", "ebuild_cache", opts.EbuildCache, "installed_db", opts.InstalledDB)
	}

	return NewCached(NewRepository(available, installed, settings), opts.CacheSize)
}
