// Package router implements the console's declarative route tree.
//
// The router provides:
//   - Nested route declarations with named view slots
//   - Build-time validation (duplicate sibling paths, duplicate names)
//   - Depth-first, first-match resolution with parameter capture
//   - Redirect following with loop detection
//   - Breadcrumb chains driven by route metadata
//   - Lazily loaded, memoized slot views
//   - A Navigator that applies only the most recent navigation
//
// # Declarations
//
// Routes are declared as a nested, ordered slice:
//
//	decls := []router.Declaration{{
//	    Path:     "secret",
//	    Name:     "secret",
//	    Redirect: "secret/credentials-group",
//	    Meta:     router.Meta{"label": "Secret", "breadcrumb": true},
//	    Components: router.Slots{
//	        "lnb":  router.Lazy(loadSecretNavBar),
//	        "main": router.Lazy(loadSecret),
//	    },
//	    Children: []router.Declaration{{
//	        Path: "credentials-group",
//	        Name: "credentialsGroup",
//	        Meta: router.Meta{"label": "Credentials Group", "breadcrumb": true},
//	        Children: []router.Declaration{
//	            {Path: "/", Component: router.Lazy(loadCredentialsGroup)},
//	            {Path: "./:id/add", Name: "addCredentials", Component: router.Lazy(loadAddCredentials)},
//	        },
//	    }},
//	}}
//
// A child path of "/" is the index of its parent. Paths starting with "./" or
// a plain segment are relative to the parent; any other leading "/" makes the
// path absolute.
//
// # Parameters
//
//	:id        → one segment, captured as Params["id"]
//	:id:int    → one segment that must parse as an integer
//	:id:uuid   → one segment that must be a UUID
//	*rest      → the remainder of the path (last segment only)
//
// # Usage
//
//	tree, err := router.Build(decls)
//	if err != nil {
//	    // errors.Is(err, router.ErrDuplicatePath) etc.
//	}
//
//	route, err := tree.Resolve(ctx, "/secret/credentials-group/42/add")
//	if err == nil {
//	    // route.Params["id"] == "42"
//	    // route.Slots["main"] is the add-credentials view reference
//	    // route.Breadcrumbs lists "Secret" and "Credentials Group"
//	}
package router
