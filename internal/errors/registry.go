package errors

import (
	stderrors "errors"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "console.json not found",
		Detail:     "No console.json was found in the current directory or any parent directory.",
		Suggestion: "Pass --config or create console.json at the project root",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid console.json",
		Detail:   "The configuration file could not be parsed as JSON.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid redirect limit",
		Detail:     "router.maxRedirects must be a positive number.",
		Suggestion: "Remove router.maxRedirects to use the default of 10",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Unknown match mode",
		Detail:     "router.matchMode must be \"prefer_static\" or \"declaration_order\".",
		Suggestion: "Use \"prefer_static\" unless routes rely on declaration order",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "log.level must be debug, info, warn or error; log.format must be text or json.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Route file not found",
		Detail:   "The file named by router.routes does not exist.",
	},

	// ============================================
	// Routing Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryRouting,
		Message:  "Route not found",
		Detail:   "No route matches the path.",
	},
	"E201": {
		Category:   CategoryRouting,
		Message:    "Redirect loop",
		Detail:     "Following redirects revisited a path or exceeded the redirect limit.",
		Suggestion: "Check the redirect targets of the routes involved",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Invalid route declarations",
		Detail:   "The route tree could not be built. Every problem found is listed.",
	},
	"E203": {
		Category:   CategoryRouting,
		Message:    "Invalid route file",
		Detail:     "The route file could not be decoded.",
		Suggestion: "Each route is a mapping of path, name, redirect, meta, component, components and children",
	},
	"E204": {
		Category: CategoryRouting,
		Message:  "Unknown view",
		Detail:   "A route refers to a view that is not registered.",
	},
	"E205": {
		Category: CategoryRouting,
		Message:  "Cannot build URL",
		Detail:   "The route name is unknown or a parameter value is missing.",
	},

	// ============================================
	// Search Errors (E300-E399)
	// ============================================

	"E300": {
		Category:   CategorySearch,
		Message:    "Unknown search key",
		Detail:     "The key is not part of the table's search configuration.",
		Suggestion: "Run `console search keys` to list the available keys",
	},
	"E301": {
		Category: CategorySearch,
		Message:  "Invalid search value",
	},
	"E302": {
		Category:   CategorySearch,
		Message:    "Identity directory unavailable",
		Detail:     "The user directory database could not be opened or queried.",
		Suggestion: "Check identity.database in console.json",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }
