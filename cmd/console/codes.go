package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/console/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List the error codes or explain one",
		Long: `Without arguments, list every error code the console CLI can report.
With a code, print its explanation and suggestion.

Examples:
  console errors
  console errors E201`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					info(w, "%s  %-8s %s", bold(code), string(t.Category), t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", args[0]).
					WithSuggestion("Run `console errors` to list the codes")
			}
			fmt.Fprintf(w, "%s %s\n", bold(code+":"), t.Message)
			info(w, "Category:   %s", t.Category)
			if t.Detail != "" {
				info(w, "%s", t.Detail)
			}
			if t.Suggestion != "" {
				info(w, "Suggestion: %s", t.Suggestion)
			}
			return nil
		},
	}
}
