package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/console/internal/errors"
	"github.com/vango-dev/console/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "console.json"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "console"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "console/router"
)

// Config represents the complete console.json configuration.
type Config struct {
	// Router contains route tree settings.
	Router RouterConfig `json:"router"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Identity contains the user directory settings.
	Identity IdentityConfig `json:"identity"`

	// Domain is the domain the console starts with.
	Domain *DomainConfig `json:"domain,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RouterConfig contains route tree settings.
type RouterConfig struct {
	// MaxRedirects bounds redirect chains (default: 10).
	MaxRedirects int `json:"maxRedirects,omitempty"`

	// MatchMode is "prefer_static" (default) or "declaration_order".
	MatchMode string `json:"matchMode,omitempty"`

	// Routes is an optional YAML route file replacing the built-in routes.
	// Relative paths are resolved against the config directory.
	Routes string `json:"routes,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace is the metric name prefix.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// TracerName is the tracer name.
	TracerName string `json:"tracerName,omitempty"`
}

// IdentityConfig contains the user directory settings.
type IdentityConfig struct {
	// Database is the SQLite database path. Empty disables the directory.
	Database string `json:"database,omitempty"`
}

// DomainConfig is the initial domain information.
type DomainConfig struct {
	DomainID         string         `json:"domainId"`
	Name             string         `json:"name"`
	AuthType         string         `json:"authType,omitempty"`
	AuthSystem       string         `json:"authSystem,omitempty"`
	AuthOptions      map[string]any `json:"authOptions,omitempty"`
	ExtendedAuthType string         `json:"extendedAuthType,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Router: RouterConfig{
			MaxRedirects: router.DefaultMaxRedirects,
			MatchMode:    string(router.MatchPreferStatic),
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for console.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No console.json found at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithLocation(path, 0, 0).
			WithDetail("Failed to parse console.json: " + err.Error()).
			WithSuggestion("Check that console.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Router.MaxRedirects == 0 {
		c.Router.MaxRedirects = router.DefaultMaxRedirects
	}
	if c.Router.MatchMode == "" {
		c.Router.MatchMode = string(router.MatchPreferStatic)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Router.MaxRedirects < 0 {
		return errors.New("E102").
			WithDetail("router.maxRedirects is " + strconv.Itoa(c.Router.MaxRedirects) + ", it must be positive")
	}
	if _, err := router.ParseMatchMode(c.Router.MatchMode); err != nil {
		return errors.New("E103").Wrap(err)
	}
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("E104").
			WithDetail("Unknown log level " + strconv.Quote(c.Log.Level))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E104").
			WithDetail("Unknown log format " + strconv.Quote(c.Log.Format))
	}
	if path := c.RoutesPath(); path != "" {
		if _, err := os.Stat(path); err != nil {
			return errors.New("E105").
				WithLocation(path, 0, 0).
				Wrap(err)
		}
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured slog level, info when unknown.
func (c *Config) LogLevel() slog.Level {
	if l, ok := logLevels[strings.ToLower(c.Log.Level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// MatchMode returns the configured match mode.
func (c *Config) MatchMode() router.MatchMode {
	m, err := router.ParseMatchMode(c.Router.MatchMode)
	if err != nil {
		return router.MatchPreferStatic
	}
	return m
}

// RouterOptions returns the route tree options implied by the config.
func (c *Config) RouterOptions() []router.Option {
	return []router.Option{
		router.WithMaxRedirects(c.Router.MaxRedirects),
		router.WithMatchMode(c.MatchMode()),
	}
}

// RoutesPath returns the absolute path of the route file, or "".
func (c *Config) RoutesPath() string {
	return c.resolve(c.Router.Routes)
}

// IdentityPath returns the path of the identity database, or "".
// ":memory:" is returned unchanged.
func (c *Config) IdentityPath() string {
	if c.Identity.Database == ":memory:" {
		return c.Identity.Database
	}
	return c.resolve(c.Identity.Database)
}

func (c *Config) resolve(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) || c.Dir() == "" {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing console.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No console.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
