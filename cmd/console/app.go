package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/console/internal/config"
	"github.com/vango-dev/console/internal/errors"
	"github.com/vango-dev/console/internal/identity"
	"github.com/vango-dev/console/internal/routes"
	"github.com/vango-dev/console/pkg/middleware"
	"github.com/vango-dev/console/pkg/router"
	"github.com/vango-dev/console/pkg/search"
)

// app holds what a command needs: the configuration, a logger and the
// instrumented route tree.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	tree     *router.Tree
	resolver router.Resolver
	registry *prometheus.Registry
}

// loadConfig loads the config named by --config, or the nearest console.json.
// Without any console.json the defaults are used.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		var ce *errors.ConsoleError
		if err != nil && errors.As(err, &ce) && ce.Code == "E100" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// newApp loads the config and builds the route tree, from the route file
// when one is configured and from the built-in sections otherwise.
func newApp(flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	views := routes.Views(logger)
	decls := routes.All(views)
	if path := cfg.RoutesPath(); path != "" {
		decls, err = router.LoadDeclarationsFile(path, views)
		if err != nil {
			return nil, routeFileError(path, err)
		}
		logger.Debug("loaded route file", "path", path, "routes", len(decls))
	}

	opts := append(cfg.RouterOptions(), router.WithLogger(logger))
	tree, err := router.Build(decls, opts...)
	if err != nil {
		return nil, errors.New("E202").Wrap(err)
	}

	registry := prometheus.NewRegistry()
	resolver := router.Wrap(tree,
		middleware.OpenTelemetry(middleware.WithTracerName(cfg.Tracing.TracerName)),
		middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(registry),
		),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		tree:     tree,
		resolver: resolver,
		registry: registry,
	}, nil
}

// openDirectory opens the configured user directory, or an empty in-memory
// one when none is configured.
func (a *app) openDirectory() (*identity.Directory, error) {
	path := a.cfg.IdentityPath()
	if path == "" {
		a.logger.Debug("no identity database configured, using an empty one")
		path = ":memory:"
	}
	dir, err := identity.Open(path)
	if err != nil {
		return nil, errors.New("E302").WithDetail("Cannot open " + path).Wrap(err)
	}
	return dir, nil
}

func routeFileError(path string, err error) error {
	if stderrors.Is(err, router.ErrUnknownView) {
		return errors.New("E204").WithLocation(path, 0, 0).Wrap(err)
	}
	return errors.New("E203").WithLocationFromError(path, err).Wrap(err)
}

// cliError maps library errors to coded console errors.
func cliError(err error) error {
	var ce *errors.ConsoleError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case stderrors.Is(err, router.ErrRedirectLoop):
		return errors.New("E201").Wrap(err)
	case stderrors.Is(err, router.ErrNotFound):
		return errors.New("E200").Wrap(err)
	case stderrors.Is(err, router.ErrMissingParam):
		return errors.New("E205").Wrap(err)
	case stderrors.Is(err, search.ErrUnknownKey):
		return errors.New("E300").Wrap(err)
	case stderrors.Is(err, search.ErrInvalidValue):
		return errors.New("E301").Wrap(err)
	case stderrors.Is(err, identity.ErrUnknownColumn), stderrors.Is(err, identity.ErrUnknownResource):
		return errors.New("E302").Wrap(err)
	}
	return err
}

// writeJSONError writes a coded error to w as a JSON object, so that
// --json output stays machine readable when a command fails.
func writeJSONError(w io.Writer, err error) {
	var ce *errors.ConsoleError
	if errors.As(err, &ce) {
		fmt.Fprintln(w, ce.FormatJSON())
	}
}
