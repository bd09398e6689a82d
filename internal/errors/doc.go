// Package errors provides coded, actionable error messages for the console CLI.
//
// Library packages return plain sentinel errors. At the CLI boundary those
// are wrapped into a ConsoleError carrying a stable code, an explanation and,
// where one helps, a suggestion.
//
// # Error Codes
//
//   - E1xx: configuration (console.json)
//   - E2xx: routing (route tree, resolution, route files)
//   - E3xx: search (keys, values, identity directory)
//
// # Usage
//
//	err := errors.New("E203").
//	    WithLocationFromError("routes.yaml", decodeErr).
//	    Wrap(decodeErr)
//
//	errors.Fprint(os.Stderr, err)
//	// ERROR E203: Invalid route file
//	//
//	//   routes.yaml:4
//	//
//	//        3 │   name: secret
//	//     →  4 │   colour: red
//	//        5 │   children:
package errors
