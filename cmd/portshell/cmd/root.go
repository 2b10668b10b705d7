// Package cmd provides the CLI commands for portshell.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wexinc/portshell/internal/config"
	"github.com/wexinc/portshell/internal/deep"
	perrors "github.com/wexinc/portshell/internal/errors"
	"github.com/wexinc/portshell/internal/logging"
	"github.com/wexinc/portshell/internal/model"
	"github.com/wexinc/portshell/internal/portage"
	"github.com/wexinc/portshell/internal/tui"
)

// Version information, set from main before Execute.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "portshell [package]",
	Short: "Explore the dependency graph of a Gentoo package",
	Long: `portshell is a read-only terminal explorer for the dependencies of a
package in the Portage tree.

It lists the direct dependencies of a package with their installed and best
visible versions, marks what an update would change, and shows which
dependencies each USE flag would pull in. Dependencies can be entered to walk
down the graph; deep dependency counts are computed in the background.

Keys:
  ↑/k ↓/j pgup pgdn   move
  →/l/enter ←/h       enter a dependency / go back
  u d                 USE flag view / dependency view
  q                   quit

Examples:
  portshell                      # Explore the configured default package
  portshell dev-lang/python:3.12 # Explore a slot of a package
  portshell '>=sys-libs/zlib-1.3'`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// runRoot loads everything the explorer needs and hands over to the TUI.
func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := logging.InitGlobal(cfg.LoggingOptions()); err != nil {
		// Non-fatal: the explorer works without a log file.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	} else {
		defer func() { _ = logging.CloseGlobal() }()
		logging.Info("portshell starting", "version", Version)
	}

	pkg := cfg.DefaultPackage
	if len(args) == 1 {
		pkg = args[0]
	}

	root, engine, err := prepare(cfg, pkg)
	if err != nil {
		logging.Error("startup failed", "package", pkg, "error", err)
		return err
	}

	return tui.Run(root, engine, tui.Options{
		Tick:      cfg.UI.Tick,
		IdleSleep: cfg.UI.IdleSleep,
		PageSize:  cfg.UI.PageSize,
	})
}

// loadConfig loads the config file and turns loader failures into
// user-facing errors.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("")
	if err == nil {
		return cfg, nil
	}

	var verrs config.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return nil, perrors.ConfigValidationError(verrs[0].Field, verrs.Error(), nil)
	}
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return nil, perrors.ConfigParseError(loadErr.Path, loadErr.Err)
	}
	return nil, perrors.Wrap(err, perrors.ErrConfig, "failed to load configuration")
}

// prepare opens the package database, resolves pkg and starts the deep
// dependency engine.
func prepare(cfg *config.Config, pkg string) (*model.Record, *deep.Engine, error) {
	repo, err := portage.Open(portage.Options{
		Fixture:        cfg.Repository.Fixture,
		EbuildCache:    cfg.Repository.EbuildCache,
		InstalledDB:    cfg.Repository.InstalledDB,
		Use:            cfg.Portage.Use,
		PackageUse:     cfg.Portage.PackageUse,
		AcceptKeywords: cfg.Portage.AcceptKeywords,
		CacheSize:      cfg.Repository.CacheSize,
	})
	if err != nil {
		return nil, nil, err
	}

	root, ok := model.ResolveRoot(repo, pkg)
	if !ok {
		return nil, nil, perrors.PackageNotFound(pkg)
	}
	logging.Info("root resolved", "atom", pkg, "package", root.ID())

	engine := deep.New(deep.Config{
		Workers:    cfg.Engine.Workers,
		PollBudget: cfg.Engine.PollBudget,
	})
	return root, engine, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("portshell {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, perrors.Format(err))
		os.Exit(1)
	}
}

// Root returns the root command for testing purposes.
func Root() *cobra.Command {
	return rootCmd
}
