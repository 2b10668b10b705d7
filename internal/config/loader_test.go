package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every lookup location at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(ConfigEnv, "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load("nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if loadErr.Path != "nonexistent/config.yaml" {
		t.Errorf("expected path 'nonexistent/config.yaml', got %q", loadErr.Path)
	}
	if loadErr.Message != "config file not found" {
		t.Errorf("expected message 'config file not found', got %q", loadErr.Message)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should yield defaults: %v", err)
	}
	if cfg.DefaultPackage != DefaultPackage {
		t.Errorf("expected default package, got %q", cfg.DefaultPackage)
	}
	if cfg.UI.PageSize != DefaultPageSize {
		t.Errorf("expected default page size, got %d", cfg.UI.PageSize)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
default_package: sys-libs/zlib
repository:
  fixture: /srv/fixture.yaml
  cache_size: 128
portage:
  use: [ssl, -X]
  package_use:
    - dev-lang/python tk -ssl
  accept_keywords: ["~amd64"]
engine:
  workers: 8
  poll_budget: 2ms
ui:
  tick: 20ms
  idle_sleep: 250ms
  page_size: 15
logging:
  level: debug
  json: true
  max_age: 24h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultPackage != "sys-libs/zlib" {
		t.Errorf("expected default package 'sys-libs/zlib', got %q", cfg.DefaultPackage)
	}
	if cfg.Repository.Fixture != "/srv/fixture.yaml" {
		t.Errorf("unexpected fixture %q", cfg.Repository.Fixture)
	}
	if cfg.Repository.CacheSize != 128 {
		t.Errorf("expected cache size 128, got %d", cfg.Repository.CacheSize)
	}
	if cfg.Repository.InstalledDB != DefaultInstalledDB {
		t.Errorf("unset key should keep its default, got %q", cfg.Repository.InstalledDB)
	}
	if len(cfg.Portage.Use) != 2 || cfg.Portage.Use[1] != "-X" {
		t.Errorf("unexpected use %v", cfg.Portage.Use)
	}
	if len(cfg.Portage.PackageUse) != 1 || cfg.Portage.PackageUse[0] != "dev-lang/python tk -ssl" {
		t.Errorf("unexpected package use %v", cfg.Portage.PackageUse)
	}
	if len(cfg.Portage.AcceptKeywords) != 1 || cfg.Portage.AcceptKeywords[0] != "~amd64" {
		t.Errorf("unexpected accept keywords %v", cfg.Portage.AcceptKeywords)
	}
	if cfg.Engine.Workers != 8 || cfg.Engine.PollBudget != 2*time.Millisecond {
		t.Errorf("unexpected engine config %+v", cfg.Engine)
	}
	if cfg.UI.Tick != 20*time.Millisecond || cfg.UI.IdleSleep != 250*time.Millisecond || cfg.UI.PageSize != 15 {
		t.Errorf("unexpected ui config %+v", cfg.UI)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON || cfg.Logging.MaxAge != 24*time.Hour {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoad_ScalarLists(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
portage:
  use: "ssl -X  python"
  package_use: "dev-lang/python tk, sys-libs/zlib minizip"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Portage.Use) != 3 || cfg.Portage.Use[2] != "python" {
		t.Errorf("unexpected use %q", cfg.Portage.Use)
	}
	want := Lines{"dev-lang/python tk", "sys-libs/zlib minizip"}
	if len(cfg.Portage.PackageUse) != 2 || cfg.Portage.PackageUse[0] != want[0] || cfg.Portage.PackageUse[1] != want[1] {
		t.Errorf("unexpected package use %q, want %q", cfg.Portage.PackageUse, want)
	}
}

func TestLoad_ConfigEnv(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "default_package: app-shells/bash\n")
	t.Setenv(ConfigEnv, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultPackage != "app-shells/bash" {
		t.Errorf("expected package from %s, got %q", ConfigEnv, cfg.DefaultPackage)
	}

	t.Setenv(ConfigEnv, filepath.Join(dir, "missing.yaml"))
	if _, err := Load(""); err == nil {
		t.Error("a missing file named by the environment should fail")
	}
}

func TestLoad_XDGLocation(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(filepath.Join(dir, "portshell"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(dir, "portshell"), "ui:\n  page_size: 3\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.PageSize != 3 {
		t.Errorf("expected page size 3, got %d", cfg.UI.PageSize)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "engine:\n  workers: 2\n")

	t.Setenv("PORTSHELL_ENGINE_WORKERS", "6")
	t.Setenv("PORTSHELL_UI_TICK", "40ms")
	t.Setenv("PORTSHELL_PORTAGE_USE", "doc -test")
	t.Setenv("PORTSHELL_DEFAULT_PACKAGE", "dev-vcs/git")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Workers != 6 {
		t.Errorf("env should override file, got %d workers", cfg.Engine.Workers)
	}
	if cfg.UI.Tick != 40*time.Millisecond {
		t.Errorf("expected tick 40ms, got %v", cfg.UI.Tick)
	}
	if len(cfg.Portage.Use) != 2 || cfg.Portage.Use[0] != "doc" {
		t.Errorf("unexpected use %v", cfg.Portage.Use)
	}
	if cfg.DefaultPackage != "dev-vcs/git" {
		t.Errorf("unexpected default package %q", cfg.DefaultPackage)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "ui:\n  page_size: [unterminated\n")

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Message != "failed to read config file" {
		t.Errorf("unexpected message %q", loadErr.Message)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "engine:\n  workers: -1\n")

	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Message != "configuration validation failed" {
		t.Errorf("unexpected message %q", loadErr.Message)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Field != "engine.workers" {
		t.Errorf("expected engine.workers validation error, got %v", err)
	}
}

func TestLoadError_Error(t *testing.T) {
	withCause := &LoadError{Path: "a.yaml", Message: "failed", Err: errors.New("boom")}
	if withCause.Error() != "a.yaml: failed: boom" {
		t.Errorf("unexpected %q", withCause.Error())
	}
	if !errors.Is(withCause, withCause.Err) {
		t.Error("LoadError should unwrap to its cause")
	}

	bare := &LoadError{Path: "a.yaml", Message: "failed"}
	if bare.Error() != "a.yaml: failed" {
		t.Errorf("unexpected %q", bare.Error())
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "portshell", "config.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/larry")
	if got := DefaultPath(); got != filepath.Join("/home/larry", ".config", "portshell", "config.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}
