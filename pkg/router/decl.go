package router

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownView is returned when a declaration file names an unregistered view.
var ErrUnknownView = errors.New("unknown view")

// declFile is the YAML form of a Declaration.
//
//	- path: secret
//	  name: secret
//	  redirect: secret/credentials-group
//	  meta: {label: Secret, breadcrumb: true}
//	  components: {lnb: secret/SecretNavBar, main: secret/Secret}
//	  children:
//	    - path: credentials
//	      component: secret/Credentials
type declFile struct {
	Path       string            `yaml:"path"`
	Name       string            `yaml:"name"`
	Redirect   string            `yaml:"redirect"`
	Meta       map[string]any    `yaml:"meta"`
	Component  string            `yaml:"component"`
	Components map[string]string `yaml:"components"`
	Children   []declFile        `yaml:"children"`
}

// LoadDeclarations decodes YAML route declarations, binding view names to
// references from views.
func LoadDeclarations(r io.Reader, views *ViewRegistry) ([]Declaration, error) {
	var files []declFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&files); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding route declarations: %w", err)
	}
	return convertDecls(files, views)
}

// LoadDeclarationsFile reads YAML route declarations from a file.
func LoadDeclarationsFile(path string, views *ViewRegistry) ([]Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening route declarations: %w", err)
	}
	defer f.Close()
	return LoadDeclarations(f, views)
}

func convertDecls(files []declFile, views *ViewRegistry) ([]Declaration, error) {
	decls := make([]Declaration, 0, len(files))
	for _, f := range files {
		d := Declaration{
			Path:     f.Path,
			Name:     f.Name,
			Redirect: f.Redirect,
		}
		if len(f.Meta) > 0 {
			d.Meta = Meta(f.Meta)
		}

		if f.Component != "" {
			ref, err := lookupView(views, f.Component, f.Path)
			if err != nil {
				return nil, err
			}
			d.Component = ref
		}
		if len(f.Components) > 0 {
			d.Components = make(Slots, len(f.Components))
			for slot, viewName := range f.Components {
				ref, err := lookupView(views, viewName, f.Path)
				if err != nil {
					return nil, err
				}
				d.Components[slot] = ref
			}
		}

		children, err := convertDecls(f.Children, views)
		if err != nil {
			return nil, err
		}
		d.Children = children
		decls = append(decls, d)
	}
	return decls, nil
}

func lookupView(views *ViewRegistry, name, routePath string) (ViewRef, error) {
	if views == nil {
		return nil, fmt.Errorf("%w: %q in route %q (no view registry)", ErrUnknownView, name, routePath)
	}
	ref, ok := views.Ref(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in route %q", ErrUnknownView, name, routePath)
	}
	return ref, nil
}
