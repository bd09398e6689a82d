package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/console/pkg/routepath"
)

// Routing errors.
var (
	// ErrNotFound is returned when no route matches a path or name.
	ErrNotFound = errors.New("route not found")

	// ErrDuplicateName is returned by Build when two routes share a name.
	ErrDuplicateName = errors.New("duplicate route name")

	// ErrDuplicatePath is returned by Build when two siblings share a path.
	ErrDuplicatePath = errors.New("duplicate route path")

	// ErrRedirectLoop is returned when redirects cycle or chain too deep.
	ErrRedirectLoop = errors.New("redirect loop")

	// ErrInvalidPattern is returned by Build for malformed route paths.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrMissingParam is returned by URL when a parameter has no value.
	ErrMissingParam = routepath.ErrMissingParam

	// ErrSuperseded is returned by Navigate when a newer navigation won.
	ErrSuperseded = errors.New("navigation superseded")
)

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicatePath indicates two siblings whose paths match the same URLs.
	// Example: "credentials" declared twice, or ":id" next to ":key".
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"

	// ErrorDuplicateName indicates two routes with the same name.
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorInvalidPattern indicates a malformed path.
	// Example: ":" with no parameter name, or "*rest" before another segment.
	ErrorInvalidPattern ValidationErrorType = "INVALID_PATTERN"
)

// ValidationError represents a route declaration error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Path is the full pattern involved
	Path string

	// Name is the route name involved, if any
	Name string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Is maps the validation category onto the package sentinels.
func (e ValidationError) Is(target error) bool {
	switch e.Type {
	case ErrorDuplicatePath:
		return target == ErrDuplicatePath
	case ErrorDuplicateName:
		return target == ErrDuplicateName
	case ErrorInvalidPattern:
		return target == ErrInvalidPattern
	}
	return false
}

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes each validation error to errors.Is and errors.As.
func (e *MultiValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// validator accumulates declaration errors while a tree is built.
type validator struct {
	names  map[string]string // name -> pattern
	errors []ValidationError
}

func newValidator() *validator {
	return &validator{names: make(map[string]string)}
}

func (v *validator) add(err ValidationError) {
	v.errors = append(v.errors, err)
}

func (v *validator) err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &MultiValidationError{Errors: v.errors}
}

// checkName records a route name and reports a duplicate.
func (v *validator) checkName(name, pattern string) {
	if name == "" {
		return
	}
	if prev, ok := v.names[name]; ok {
		v.add(ValidationError{
			Type:    ErrorDuplicateName,
			Message: fmt.Sprintf("route name %q used by %s and %s", name, prev, pattern),
			Path:    pattern,
			Name:    name,
		})
		return
	}
	v.names[name] = pattern
}

// checkSiblings reports siblings whose patterns have the same shape.
func (v *validator) checkSiblings(siblings []*Node) {
	seen := make(map[string]*Node, len(siblings))
	for _, n := range siblings {
		shape := routepath.Shape(n.pattern)
		if n.index {
			shape += "#index"
		}
		if prev, ok := seen[shape]; ok {
			v.add(ValidationError{
				Type:    ErrorDuplicatePath,
				Message: fmt.Sprintf("sibling paths %q and %q both resolve to %s", prev.path, n.path, n.pattern),
				Path:    n.pattern,
				Name:    n.name,
			})
			continue
		}
		seen[shape] = n
	}
}

// checkPattern validates the segments of a full pattern.
func (v *validator) checkPattern(declared, pattern, name string) bool {
	segs := routepath.Split(pattern)
	for i, seg := range segs {
		kind := routepath.Kind(seg)
		if kind == routepath.Static {
			continue
		}
		paramName, paramType := routepath.ParseParam(seg)
		switch {
		case paramName == "":
			v.add(ValidationError{
				Type:    ErrorInvalidPattern,
				Message: fmt.Sprintf("%q has a parameter without a name", declared),
				Path:    pattern,
				Name:    name,
			})
			return false
		case kind == routepath.CatchAll && i != len(segs)-1:
			v.add(ValidationError{
				Type:    ErrorInvalidPattern,
				Message: fmt.Sprintf("%q has catch-all %q before the last segment", declared, seg),
				Path:    pattern,
				Name:    name,
			})
			return false
		case kind == routepath.Param && !knownParamType(paramType):
			v.add(ValidationError{
				Type:    ErrorInvalidPattern,
				Message: fmt.Sprintf("%q has unknown parameter type %q", declared, paramType),
				Path:    pattern,
				Name:    name,
			})
			return false
		}
	}
	return true
}
