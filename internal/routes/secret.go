// Package routes declares the console's built-in route sections.
package routes

import (
	"context"
	"log/slog"

	"github.com/vango-dev/console/pkg/router"
)

// View names of the secret section.
const (
	ViewSecret           = "secret/Secret"
	ViewSecretNavBar     = "secret/SecretNavBar"
	ViewCredentialsGroup = "secret/credentials-group/CredentialsGroup"
	ViewAddCredentials   = "secret/credentials-group/AddCredentials"
	ViewCredentials      = "secret/credentials/Credentials"
)

// Route names of the secret section.
const (
	RouteSecret           = "secret"
	RouteCredentialsGroup = "credentialsGroup"
	RouteAddCredentials   = "addCredentials"
	RouteCredentials      = "credentials"
)

// Component is the view produced by the built-in loaders: a reference to a
// page component by its chunk name.
type Component struct {
	Name string `json:"name"`
}

// Views returns a registry holding every built-in view. Loaders log the
// first time their chunk is fetched.
func Views(logger *slog.Logger) *router.ViewRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "views")

	views := router.NewViewRegistry()
	for _, name := range []string{
		ViewSecret,
		ViewSecretNavBar,
		ViewCredentialsGroup,
		ViewAddCredentials,
		ViewCredentials,
	} {
		views.Register(name, func(ctx context.Context) (router.View, error) {
			logger.Debug("loading view", "view", name)
			return Component{Name: name}, nil
		})
	}
	return views
}

// Secret returns the secret section: a credentials group listing with an
// "add credentials" page, and a credentials listing. Visiting the section
// root lands on the credentials group.
func Secret(views *router.ViewRegistry) []router.Declaration {
	ref := func(name string) router.ViewRef {
		v, ok := views.Ref(name)
		if !ok {
			return nil
		}
		return v
	}

	return []router.Declaration{{
		Path:     "secret",
		Name:     RouteSecret,
		Redirect: "secret/credentials-group",
		Meta:     router.Meta{router.MetaLabel: "Secret", router.MetaBreadcrumb: true},
		Components: router.Slots{
			"lnb":  ref(ViewSecretNavBar),
			"main": ref(ViewSecret),
		},
		Children: []router.Declaration{
			{
				Path:      "credentials-group",
				Name:      RouteCredentialsGroup,
				Meta:      router.Meta{router.MetaLabel: "Credentials Group", router.MetaBreadcrumb: true},
				Component: router.Static(router.View("router-view")),
				Children: []router.Declaration{
					{Path: "/", Component: ref(ViewCredentialsGroup)},
					{
						Path:      "./:id/add",
						Name:      RouteAddCredentials,
						Meta:      router.Meta{router.MetaLabel: "Add Credentials"},
						Component: ref(ViewAddCredentials),
					},
				},
			},
			{
				Path:      "credentials",
				Name:      RouteCredentials,
				Meta:      router.Meta{router.MetaLabel: "Credentials", router.MetaBreadcrumb: true},
				Component: ref(ViewCredentials),
			},
		},
	}}
}

// All returns every built-in section.
func All(views *router.ViewRegistry) []router.Declaration {
	return Secret(views)
}
