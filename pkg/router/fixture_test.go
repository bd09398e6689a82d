package router

import (
	"context"
	"sync/atomic"
	"testing"
)

// countingView is a view loader that counts its invocations.
type countingView struct {
	name  string
	calls atomic.Int32
}

func (c *countingView) load(ctx context.Context) (View, error) {
	c.calls.Add(1)
	return c.name, nil
}

// secretViews holds the loaders of the secret section.
type secretViews struct {
	secret, navBar, group, credentials, add *countingView
}

func newSecretViews() *secretViews {
	return &secretViews{
		secret:      &countingView{name: "Secret"},
		navBar:      &countingView{name: "SecretNavBar"},
		group:       &countingView{name: "CredentialsGroup"},
		credentials: &countingView{name: "Credentials"},
		add:         &countingView{name: "AddCredentials"},
	}
}

func (v *secretViews) total() int32 {
	return v.secret.calls.Load() + v.navBar.calls.Load() + v.group.calls.Load() +
		v.credentials.calls.Load() + v.add.calls.Load()
}

// secretDecls mirrors the console's secret section.
func secretDecls(v *secretViews) []Declaration {
	return []Declaration{{
		Path:     "secret",
		Name:     "secret",
		Redirect: "secret/credentials-group",
		Meta:     Meta{"label": "Secret", "breadcrumb": true},
		Components: Slots{
			"lnb":  Lazy(v.navBar.load),
			"main": Lazy(v.secret.load),
		},
		Children: []Declaration{
			{
				Path:      "credentials-group",
				Name:      "credentialsGroup",
				Meta:      Meta{"label": "Credentials Group", "breadcrumb": true},
				Component: Static("router-view"),
				Children: []Declaration{
					{Path: "/", Component: Lazy(v.group.load)},
					{
						Path:      "./:id/add",
						Name:      "addCredentials",
						Meta:      Meta{"label": "Add Credentials"},
						Component: Lazy(v.add.load),
					},
				},
			},
			{
				Path:      "credentials",
				Name:      "credentials",
				Meta:      Meta{"label": "Credentials", "breadcrumb": true},
				Component: Lazy(v.credentials.load),
			},
		},
	}}
}

func buildSecretTree(t *testing.T, opts ...Option) (*Tree, *secretViews) {
	t.Helper()
	views := newSecretViews()
	tree, err := Build(secretDecls(views), opts...)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree, views
}
