package router

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestBuildSecretTree(t *testing.T) {
	tree, views := buildSecretTree(t)

	if tree.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tree.Len())
	}
	if tree.MatchMode() != MatchPreferStatic {
		t.Errorf("MatchMode() = %q, want prefer_static", tree.MatchMode())
	}
	if tree.MaxRedirects() != DefaultMaxRedirects {
		t.Errorf("MaxRedirects() = %d, want %d", tree.MaxRedirects(), DefaultMaxRedirects)
	}
	if views.total() != 0 {
		t.Errorf("Build loaded %d views, want 0", views.total())
	}

	top := tree.Routes()
	if len(top) != 1 || top[0].Pattern() != "/secret" {
		t.Fatalf("Routes() = %v", top)
	}
	secret := top[0]
	if secret.Parent() != nil || secret.Depth() != 0 {
		t.Errorf("secret parent = %v depth = %d", secret.Parent(), secret.Depth())
	}
	if _, ok := secret.Slots()["lnb"]; !ok {
		t.Error("secret should bind the lnb slot")
	}

	add, ok := tree.Lookup("addCredentials")
	if !ok {
		t.Fatal("Lookup(addCredentials) failed")
	}
	if add.Pattern() != "/secret/credentials-group/:id/add" {
		t.Errorf("Pattern() = %q", add.Pattern())
	}
	if add.Depth() != 2 || add.Parent().Name() != "credentialsGroup" {
		t.Errorf("depth = %d parent = %q", add.Depth(), add.Parent().Name())
	}
	if add.Meta().Label() != "Add Credentials" || add.Meta().Breadcrumb() {
		t.Errorf("Meta() = %v", add.Meta())
	}
}

func TestBuildEmpty(t *testing.T) {
	tree, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil) error: %v", err)
	}
	if tree.Len() != 0 {
		t.Errorf("Len() = %d", tree.Len())
	}
	if _, err := tree.Resolve(context.Background(), "/"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBuildSlots(t *testing.T) {
	main := Static("main view")
	other := Static("other view")

	tree, err := Build([]Declaration{
		{Path: "a", Name: "a", Component: main},
		{Path: "b", Name: "b", Component: main, Components: Slots{"main": other, "lnb": other}},
		{Path: "c", Name: "c"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	a, _ := tree.Lookup("a")
	if a.Slots()[DefaultSlot] != main {
		t.Error("Component should bind the main slot")
	}
	b, _ := tree.Lookup("b")
	if b.Slots()[DefaultSlot] != other || len(b.Slots()) != 2 {
		t.Errorf("explicit main slot should win, got %v", b.Slots())
	}
	c, _ := tree.Lookup("c")
	if c.Slots() != nil {
		t.Errorf("c.Slots() = %v, want nil", c.Slots())
	}
	if c.Meta() == nil {
		t.Error("Meta() should never be nil")
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name  string
		decls []Declaration
		want  error
	}{
		{
			name:  "duplicate sibling path",
			decls: []Declaration{{Path: "x"}, {Path: "./x"}},
			want:  ErrDuplicatePath,
		},
		{
			name:  "duplicate param shape",
			decls: []Declaration{{Path: "items/:id"}, {Path: "items/:key"}},
			want:  ErrDuplicatePath,
		},
		{
			name:  "duplicate index",
			decls: []Declaration{{Path: "x", Children: []Declaration{{Path: "/"}, {Path: ""}}}},
			want:  ErrDuplicatePath,
		},
		{
			name: "duplicate name across levels",
			decls: []Declaration{
				{Path: "x", Name: "dup"},
				{Path: "y", Children: []Declaration{{Path: "z", Name: "dup"}}},
			},
			want: ErrDuplicateName,
		},
		{
			name:  "empty param name",
			decls: []Declaration{{Path: "x/:"}},
			want:  ErrInvalidPattern,
		},
		{
			name:  "catch-all not last",
			decls: []Declaration{{Path: "x/*rest/y"}},
			want:  ErrInvalidPattern,
		},
		{
			name:  "unknown param type",
			decls: []Declaration{{Path: "x/:id:float"}},
			want:  ErrInvalidPattern,
		},
		{
			name:  "parent segment",
			decls: []Declaration{{Path: "x", Children: []Declaration{{Path: "../y"}}}},
			want:  ErrInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Build(tt.decls)
			if err == nil {
				t.Fatalf("Build() = %v, want error", tree)
			}
			if tree != nil {
				t.Error("Build() should not return a tree on error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var multi *MultiValidationError
			if !errors.As(err, &multi) {
				t.Errorf("error %T should be a *MultiValidationError", err)
			}
		})
	}
}

func TestBuildCollectsAllErrors(t *testing.T) {
	_, err := Build([]Declaration{
		{Path: "x", Name: "n"},
		{Path: "x", Name: "n"},
		{Path: "y/:"},
	})
	var multi *MultiValidationError
	if !errors.As(err, &multi) {
		t.Fatalf("error = %v, want *MultiValidationError", err)
	}
	if len(multi.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(multi.Errors), err)
	}
	for _, want := range []error{ErrDuplicatePath, ErrDuplicateName, ErrInvalidPattern} {
		if !errors.Is(err, want) {
			t.Errorf("errors.Is(err, %v) = false", want)
		}
	}
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Error("errors.As should reach a ValidationError")
	}
}

func TestMatchModes(t *testing.T) {
	decls := []Declaration{{
		Path: "items",
		Children: []Declaration{
			{Path: ":id", Name: "item"},
			{Path: "new", Name: "newItem"},
			{Path: "*rest", Name: "itemsRest"},
		},
	}}

	tests := []struct {
		mode MatchMode
		path string
		want string
	}{
		{MatchPreferStatic, "/items/new", "newItem"},
		{MatchPreferStatic, "/items/7", "item"},
		{MatchPreferStatic, "/items/7/history", "itemsRest"},
		{MatchDeclarationOrder, "/items/new", "item"},
		{MatchDeclarationOrder, "/items/7", "item"},
		{MatchDeclarationOrder, "/items/a/b", "itemsRest"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+tt.path, func(t *testing.T) {
			tree, err := Build(decls, WithMatchMode(tt.mode))
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			route, err := tree.Resolve(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.path, err)
			}
			if route.Name() != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, route.Name(), tt.want)
			}
		})
	}
}

func TestMatchBacktracks(t *testing.T) {
	// "/a/:x" matches the first segments but has no child for "c",
	// so the sibling "/a/b/c" must still be found.
	tree, err := Build([]Declaration{
		{Path: "a/:x", Name: "param", Children: []Declaration{{Path: "d", Name: "paramD"}}},
		{Path: "a/b/c", Name: "static"},
	}, WithMatchMode(MatchDeclarationOrder))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	route, err := tree.Resolve(context.Background(), "/a/b/c")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if route.Name() != "static" {
		t.Errorf("Name() = %q, want static", route.Name())
	}
}

func TestMatchTypedParams(t *testing.T) {
	tree, err := Build([]Declaration{
		{Path: "n/:id:int", Name: "byInt"},
		{Path: "n/:id:uuid", Name: "byUUID"},
		{Path: "n/:slug", Name: "bySlug"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"/n/42", "byInt"},
		{"/n/550e8400-e29b-41d4-a716-446655440000", "byUUID"},
		{"/n/hello", "bySlug"},
		{"/n/hello%20world", "bySlug"},
	}
	for _, tt := range tests {
		route, err := tree.Resolve(context.Background(), tt.path)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", tt.path, err)
			continue
		}
		if route.Name() != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, route.Name(), tt.want)
		}
	}

	route, err := tree.Resolve(context.Background(), "/n/hello%20world")
	if err != nil {
		t.Fatal(err)
	}
	if route.Params["slug"] != "hello world" {
		t.Errorf("slug = %q, want decoded value", route.Params["slug"])
	}
}

func TestMatchCatchAll(t *testing.T) {
	tree, err := Build([]Declaration{{Path: "files/*path", Name: "files"}})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	route, err := tree.Resolve(context.Background(), "/files/a/b/c.txt")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if route.Params["path"] != "a/b/c.txt" {
		t.Errorf("path = %q", route.Params["path"])
	}

	if _, err := tree.Resolve(context.Background(), "/files"); !errors.Is(err, ErrNotFound) {
		t.Errorf("catch-all should need at least one segment, got %v", err)
	}
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"", MatchPreferStatic, false},
		{"prefer_static", MatchPreferStatic, false},
		{"declaration_order", MatchDeclarationOrder, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMatchMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMatchMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestURL(t *testing.T) {
	tree, _ := buildSecretTree(t)

	got, err := tree.URL("addCredentials", map[string]string{"id": "42"})
	if err != nil {
		t.Fatalf("URL() error: %v", err)
	}
	if got != "/secret/credentials-group/42/add" {
		t.Errorf("URL() = %q", got)
	}

	got, err = tree.URL("addCredentials", map[string]string{"id": "a b"})
	if err != nil {
		t.Fatalf("URL() error: %v", err)
	}
	if got != "/secret/credentials-group/a%20b/add" {
		t.Errorf("URL() = %q, want escaped value", got)
	}

	if _, err := tree.URL("addCredentials", nil); !errors.Is(err, ErrMissingParam) {
		t.Errorf("error = %v, want ErrMissingParam", err)
	}
	if _, err := tree.URL("nope", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// URL and Resolve round-trip.
	route, err := tree.Resolve(context.Background(), "/secret/credentials-group/a%20b/add")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if route.Params["id"] != "a b" {
		t.Errorf("id = %q", route.Params["id"])
	}
}

func TestLookupAnonymous(t *testing.T) {
	tree, _ := buildSecretTree(t)
	if _, ok := tree.Lookup(""); ok {
		t.Error("Lookup(\"\") should fail")
	}
}

func TestWalk(t *testing.T) {
	tree, _ := buildSecretTree(t)

	var patterns []string
	tree.Walk(func(n *Node) bool {
		patterns = append(patterns, n.Pattern())
		return true
	})
	want := []string{
		"/secret",
		"/secret/credentials-group",
		"/secret/credentials-group",
		"/secret/credentials-group/:id/add",
		"/secret/credentials",
	}
	if !reflect.DeepEqual(patterns, want) {
		t.Errorf("Walk() = %v, want %v", patterns, want)
	}

	var top []string
	tree.Walk(func(n *Node) bool {
		top = append(top, n.Pattern())
		return false
	})
	if len(top) != 1 {
		t.Errorf("Walk() without descending = %v", top)
	}
}
