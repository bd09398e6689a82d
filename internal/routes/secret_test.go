package routes

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/console/pkg/router"
)

func buildTree(t *testing.T) *router.Tree {
	t.Helper()
	tree, err := router.Build(All(Views(nil)))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

func TestSecretResolution(t *testing.T) {
	tree := buildTree(t)
	ctx := context.Background()

	tests := []struct {
		path      string
		wantNode  string
		wantRoute string
		wantFrom  int
	}{
		{"/secret", "/secret/credentials-group", "", 1},
		{"secret/credentials-group", "/secret/credentials-group", "", 0},
		{"/secret/credentials-group/42/add", "/secret/credentials-group/:id/add", RouteAddCredentials, 0},
		{"/secret/credentials", "/secret/credentials", RouteCredentials, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route, err := tree.Resolve(ctx, tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.path, err)
			}
			if route.Node.Pattern() != tt.wantNode {
				t.Errorf("Pattern() = %q, want %q", route.Node.Pattern(), tt.wantNode)
			}
			if route.Name() != tt.wantRoute {
				t.Errorf("Name() = %q, want %q", route.Name(), tt.wantRoute)
			}
			if len(route.RedirectedFrom) != tt.wantFrom {
				t.Errorf("RedirectedFrom = %v", route.RedirectedFrom)
			}
		})
	}

	if _, err := tree.Resolve(ctx, "/secret/unknown"); !errors.Is(err, router.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSecretViews(t *testing.T) {
	tree := buildTree(t)

	page, err := router.NewNavigator(tree).Navigate(context.Background(), "/secret/credentials-group/7/add")
	if err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}

	v, ok := page.View(router.DefaultSlot)
	if !ok || v != (Component{Name: ViewAddCredentials}) {
		t.Errorf("main view = %v, %v", v, ok)
	}
	if lnb := page.Views[0]["lnb"]; lnb != (Component{Name: ViewSecretNavBar}) {
		t.Errorf("lnb view = %v", lnb)
	}
	if got := len(page.Route.Breadcrumbs); got != 2 {
		t.Errorf("Breadcrumbs = %v", page.Route.Breadcrumbs)
	}
}

func TestSecretBindsEveryView(t *testing.T) {
	views := Views(nil)
	if len(views.Names()) != 5 {
		t.Fatalf("Names() = %v", views.Names())
	}

	tree, err := router.Build(Secret(views))
	if err != nil {
		t.Fatal(err)
	}
	bound := map[router.ViewRef]bool{}
	tree.Walk(func(n *router.Node) bool {
		for _, ref := range n.Slots() {
			bound[ref] = true
		}
		return true
	})
	for _, name := range views.Names() {
		ref, _ := views.Ref(name)
		if !bound[ref] {
			t.Errorf("view %s is not bound to any route", name)
		}
	}
}

func TestSecretURLs(t *testing.T) {
	tree := buildTree(t)
	got, err := tree.URL(RouteAddCredentials, map[string]string{"id": "group-1"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "/secret/credentials-group/group-1/add" {
		t.Errorf("URL() = %q", got)
	}
}
