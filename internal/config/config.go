// Package config provides configuration data structures for portshell.
package config

import (
	"fmt"
	"time"

	"github.com/wexinc/portshell/internal/logging"
)

// Config represents the complete portshell configuration.
type Config struct {
	// DefaultPackage is explored when no package is given on the command line.
	DefaultPackage string           `yaml:"default_package" json:"default_package" mapstructure:"default_package"`
	Repository     RepositoryConfig `yaml:"repository"      json:"repository"      mapstructure:"repository"`
	Portage        PortageConfig    `yaml:"portage"         json:"portage"         mapstructure:"portage"`
	Engine         EngineConfig     `yaml:"engine"          json:"engine"          mapstructure:"engine"`
	UI             UIConfig         `yaml:"ui"              json:"ui"              mapstructure:"ui"`
	Logging        LoggingConfig    `yaml:"logging"         json:"logging"         mapstructure:"logging"`
}

// RepositoryConfig locates the package database.
type RepositoryConfig struct {
	// EbuildCache is the md5-cache directory of the main repository.
	EbuildCache string `yaml:"ebuild_cache" json:"ebuild_cache" mapstructure:"ebuild_cache"`
	// InstalledDB is the installed package database.
	InstalledDB string `yaml:"installed_db" json:"installed_db" mapstructure:"installed_db"`
	// Fixture is a YAML repository file. When set it replaces the on-disk database.
	Fixture string `yaml:"fixture" json:"fixture" mapstructure:"fixture"`
	// CacheSize is the number of memoized atom lookups.
	CacheSize int `yaml:"cache_size" json:"cache_size" mapstructure:"cache_size"`
}

// PortageConfig holds the USE and keyword settings applied to packages.
type PortageConfig struct {
	// Use is the global USE list; "-flag" disables and "-*" clears.
	Use []string `yaml:"use" json:"use" mapstructure:"use"`
	// PackageUse lines look like "dev-lang/python tk -ssl".
	PackageUse Lines `yaml:"package_use" json:"package_use" mapstructure:"package_use"`
	// AcceptKeywords lists the accepted keywords, e.g. "amd64" or "~amd64".
	AcceptKeywords []string `yaml:"accept_keywords" json:"accept_keywords" mapstructure:"accept_keywords"`
}

// Lines is a list whose entries may contain spaces.
type Lines []string

// EngineConfig configures the deep dependency engine.
type EngineConfig struct {
	// Workers bounds concurrent computations (default: 4).
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
	// PollBudget is how long a poll waits for a running computation (default: 1ms).
	PollBudget time.Duration `yaml:"poll_budget" json:"poll_budget" mapstructure:"poll_budget"`
}

// UIConfig configures the explorer.
type UIConfig struct {
	// Tick is the poll interval while results arrive (default: 15ms).
	Tick time.Duration `yaml:"tick" json:"tick" mapstructure:"tick"`
	// IdleSleep is the poll interval when nothing changed (default: 100ms).
	IdleSleep time.Duration `yaml:"idle_sleep" json:"idle_sleep" mapstructure:"idle_sleep"`
	// PageSize is how far page up/down move (default: 10).
	PageSize int `yaml:"page_size" json:"page_size" mapstructure:"page_size"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level    string        `yaml:"level"     json:"level"     mapstructure:"level"`
	Dir      string        `yaml:"dir"       json:"dir"       mapstructure:"dir"`
	JSON     bool          `yaml:"json"      json:"json"      mapstructure:"json"`
	MaxFiles int           `yaml:"max_files" json:"max_files" mapstructure:"max_files"`
	MaxAge   time.Duration `yaml:"max_age"   json:"max_age"   mapstructure:"max_age"`
}

// Default values.
const (
	DefaultPackage     = "dev-lang/python"
	DefaultEbuildCache = "/var/db/repos/gentoo/metadata/md5-cache"
	DefaultInstalledDB = "/var/db/pkg"
	DefaultCacheSize   = 4096
	DefaultWorkers     = 4
	DefaultPollBudget  = time.Millisecond
	DefaultTick        = 15 * time.Millisecond
	DefaultIdleSleep   = 100 * time.Millisecond
	DefaultPageSize    = 10
	DefaultLogLevel    = "info"
	DefaultMaxLogFiles = 10
	DefaultMaxLogAge   = 7 * 24 * time.Hour
)

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		DefaultPackage: DefaultPackage,
		Repository: RepositoryConfig{
			EbuildCache: DefaultEbuildCache,
			InstalledDB: DefaultInstalledDB,
			CacheSize:   DefaultCacheSize,
		},
		Portage: PortageConfig{
			Use:            []string{},
			PackageUse:     Lines{},
			AcceptKeywords: []string{"amd64"},
		},
		Engine: EngineConfig{
			Workers:    DefaultWorkers,
			PollBudget: DefaultPollBudget,
		},
		UI: UIConfig{
			Tick:      DefaultTick,
			IdleSleep: DefaultIdleSleep,
			PageSize:  DefaultPageSize,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			MaxFiles: DefaultMaxLogFiles,
			MaxAge:   DefaultMaxLogAge,
		},
	}
}

// ApplyDefaults fills unset fields after loading from a file.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.DefaultPackage == "" {
		c.DefaultPackage = defaults.DefaultPackage
	}

	if c.Repository.EbuildCache == "" {
		c.Repository.EbuildCache = defaults.Repository.EbuildCache
	}
	if c.Repository.InstalledDB == "" {
		c.Repository.InstalledDB = defaults.Repository.InstalledDB
	}
	if c.Repository.CacheSize == 0 {
		c.Repository.CacheSize = defaults.Repository.CacheSize
	}

	// An empty keyword list would hide every package.
	if len(c.Portage.AcceptKeywords) == 0 {
		c.Portage.AcceptKeywords = defaults.Portage.AcceptKeywords
	}
	if c.Portage.Use == nil {
		c.Portage.Use = []string{}
	}
	if c.Portage.PackageUse == nil {
		c.Portage.PackageUse = Lines{}
	}

	if c.Engine.Workers == 0 {
		c.Engine.Workers = defaults.Engine.Workers
	}
	if c.Engine.PollBudget == 0 {
		c.Engine.PollBudget = defaults.Engine.PollBudget
	}

	if c.UI.Tick == 0 {
		c.UI.Tick = defaults.UI.Tick
	}
	if c.UI.IdleSleep == 0 {
		c.UI.IdleSleep = defaults.UI.IdleSleep
	}
	if c.UI.PageSize == 0 {
		c.UI.PageSize = defaults.UI.PageSize
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = defaults.Logging.MaxFiles
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = defaults.Logging.MaxAge
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	positive := func(field string, n int) {
		if n < 1 {
			errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf("must be at least 1, got %d", n)})
		}
	}
	positive("repository.cache_size", c.Repository.CacheSize)
	positive("engine.workers", c.Engine.Workers)
	positive("ui.page_size", c.UI.PageSize)

	nonNegative := func(field string, d time.Duration) {
		if d < 0 {
			errs = append(errs, &ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	nonNegative("engine.poll_budget", c.Engine.PollBudget)
	nonNegative("ui.tick", c.UI.Tick)
	nonNegative("ui.idle_sleep", c.UI.IdleSleep)
	nonNegative("logging.max_age", c.Logging.MaxAge)

	if c.UI.Tick > 0 && c.UI.IdleSleep > 0 && c.UI.IdleSleep < c.UI.Tick {
		errs = append(errs, &ValidationError{
			Field:   "ui.idle_sleep",
			Message: "should not be shorter than ui.tick",
		})
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if c.Logging.MaxFiles < 0 {
		errs = append(errs, &ValidationError{Field: "logging.max_files", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoggingOptions converts the logging section for the logging package.
func (c *Config) LoggingOptions() *logging.Config {
	level, _ := logging.ParseLevel(c.Logging.Level)
	dir := c.Logging.Dir
	if dir == "" {
		dir = logging.DefaultLogDir()
	}
	return &logging.Config{
		Level:       level,
		LogDir:      dir,
		MaxLogFiles: c.Logging.MaxFiles,
		MaxLogAge:   c.Logging.MaxAge,
		JSONFormat:  c.Logging.JSON,
	}
}
