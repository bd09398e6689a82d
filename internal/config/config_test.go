package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/console/pkg/router"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Router.MaxRedirects != router.DefaultMaxRedirects {
		t.Errorf("Router.MaxRedirects = %d, want %d", cfg.Router.MaxRedirects, router.DefaultMaxRedirects)
	}
	if cfg.MatchMode() != router.MatchPreferStatic {
		t.Errorf("MatchMode() = %q, want prefer_static", cfg.MatchMode())
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Tracing.TracerName != DefaultTracerName {
		t.Errorf("Tracing.TracerName = %q", cfg.Tracing.TracerName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil || !strings.Contains(err.Error(), "E100") {
		t.Errorf("Expected E100 error for missing config, got %v", err)
	}

	configJSON := `{
  "router": {
    "maxRedirects": 3,
    "matchMode": "declaration_order",
    "routes": "routes.yaml"
  },
  "log": {"level": "debug", "format": "json"},
  "identity": {"database": "data/identity.db"},
  "domain": {"domainId": "domain-1", "name": "acme", "authOptions": {"realm": "acme"}}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Router.MaxRedirects != 3 {
		t.Errorf("Router.MaxRedirects = %d, want 3", cfg.Router.MaxRedirects)
	}
	if cfg.MatchMode() != router.MatchDeclarationOrder {
		t.Errorf("MatchMode() = %q", cfg.MatchMode())
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.RoutesPath() != filepath.Join(tmpDir, "routes.yaml") {
		t.Errorf("RoutesPath() = %q", cfg.RoutesPath())
	}
	if cfg.IdentityPath() != filepath.Join(tmpDir, "data", "identity.db") {
		t.Errorf("IdentityPath() = %q", cfg.IdentityPath())
	}
	if cfg.Domain == nil || cfg.Domain.Name != "acme" || cfg.Domain.AuthOptions["realm"] != "acme" {
		t.Errorf("Domain = %+v", cfg.Domain)
	}

	// Defaults fill the sections the file leaves out.
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
	if len(cfg.RouterOptions()) != 2 {
		t.Errorf("RouterOptions() = %d options", len(cfg.RouterOptions()))
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E101") {
		t.Errorf("Expected E101 error, got: %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Router.MaxRedirects = 5
	cfg.Identity.Database = ":memory:"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q after SaveTo", cfg.Path())
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Router.MaxRedirects != 5 {
		t.Errorf("Router.MaxRedirects = %d, want 5", loaded.Router.MaxRedirects)
	}
	if loaded.IdentityPath() != ":memory:" {
		t.Errorf("IdentityPath() = %q", loaded.IdentityPath())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*Config)
		wantCode string
	}{
		{"valid", func(c *Config) {}, ""},
		{"negative redirects", func(c *Config) { c.Router.MaxRedirects = -1 }, "E102"},
		{"unknown match mode", func(c *Config) { c.Router.MatchMode = "random" }, "E103"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "E104"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "E104"},
		{"upper case level", func(c *Config) { c.Log.Level = "WARN" }, ""},
		{"missing route file", func(c *Config) { c.Router.Routes = "/nonexistent/routes.yaml" }, "E105"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantCode) {
				t.Errorf("Validate() = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for level, want := range tests {
		cfg := New()
		cfg.Log.Level = level
		if got := cfg.LogLevel(); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nested); err == nil {
		t.Error("Expected error without console.json")
	}

	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if !Exists(root) {
		t.Error("Exists() = false after SaveTo")
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}

func TestLoadFromWorkingDir(t *testing.T) {
	root := t.TempDir()
	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "sub")
	if err := os.Mkdir(nested, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir error: %v", err)
	}
	if cfg.Dir() != root {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), root)
	}
}
