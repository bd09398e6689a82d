package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/console/internal/errors"
)

func urlCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <name> [param=value]...",
		Short: "Build the path of a named route",
		Long: `Build the concrete path of a named route from parameter values.

Example:
  console url addCredentials id=42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string, len(args)-1)
			for _, arg := range args[1:] {
				k, v, ok := strings.Cut(arg, "=")
				if !ok || k == "" {
					return errors.Newf(errors.CategoryCLI, "invalid parameter %q", arg).
						WithExample("console url addCredentials id=42")
				}
				params[k] = v
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}

			path, err := a.tree.URL(args[0], params)
			if err != nil {
				return errors.New("E205").Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	return cmd
}
