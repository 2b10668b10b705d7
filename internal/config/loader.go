package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "PORTSHELL"

	// ConfigEnv names the variable that points at a config file.
	ConfigEnv = EnvPrefix + "_CONFIG"
)

// DefaultPath returns $XDG_CONFIG_HOME/portshell/config.yaml, falling back
// to ~/.config/portshell/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "portshell", "config.yaml")
}

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	// PORTSHELL_UI_PAGE_SIZE overrides ui.page_size, and so on.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, NewConfig())
	return &Loader{v: v}
}

// setDefaults registers every key so environment overrides apply even when
// the file does not mention it.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("default_package", c.DefaultPackage)
	v.SetDefault("repository.ebuild_cache", c.Repository.EbuildCache)
	v.SetDefault("repository.installed_db", c.Repository.InstalledDB)
	v.SetDefault("repository.fixture", c.Repository.Fixture)
	v.SetDefault("repository.cache_size", c.Repository.CacheSize)
	v.SetDefault("portage.use", c.Portage.Use)
	v.SetDefault("portage.package_use", c.Portage.PackageUse)
	v.SetDefault("portage.accept_keywords", c.Portage.AcceptKeywords)
	v.SetDefault("engine.workers", c.Engine.Workers)
	v.SetDefault("engine.poll_budget", c.Engine.PollBudget)
	v.SetDefault("ui.tick", c.UI.Tick)
	v.SetDefault("ui.idle_sleep", c.UI.IdleSleep)
	v.SetDefault("ui.page_size", c.UI.PageSize)
	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.dir", c.Logging.Dir)
	v.SetDefault("logging.json", c.Logging.JSON)
	v.SetDefault("logging.max_files", c.Logging.MaxFiles)
	v.SetDefault("logging.max_age", c.Logging.MaxAge)
}

// LoadConfig loads configuration from path, merges environment variables,
// applies defaults and validates the result.
//
// An empty path means $PORTSHELL_CONFIG, then DefaultPath. Only a missing
// file at the fallback location is tolerated.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			l.v.SetConfigFile(path)
			if err := l.v.ReadInConfig(); err != nil {
				return nil, &LoadError{
					Path:    path,
					Message: "failed to read config file",
					Err:     err,
				}
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// Defaults and environment only.
		default:
			return nil, &LoadError{
				Path:    path,
				Message: "config file not found",
				Err:     err,
			}
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// viperDecodeHook composes the standard mapstructure hooks with ours.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToListHookFunc(),
	)
}

var (
	listType  = reflect.TypeOf([]string{})
	linesType = reflect.TypeOf(Lines{})
)

// stringToListHookFunc splits a scalar into a list, so that
// PORTSHELL_PORTAGE_USE="ssl -X" and use: "ssl -X" both work. Lines are
// split on newlines and commas only.
func stringToListHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		switch to {
		case listType:
			return strings.FieldsFunc(s, func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t' || r == '\n'
			}), nil
		case linesType:
			var lines Lines
			for _, line := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
			return lines, nil
		}
		return data, nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}
