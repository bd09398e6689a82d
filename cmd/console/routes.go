package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/console/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route tree",
		Long: `Print every route in declaration order with its full pattern,
name, redirect target and slots.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			a.tree.Walk(func(n *router.Node) bool {
				fmt.Fprintln(w, formatNode(n))
				return true
			})
			fmt.Fprintln(w)
			info(w, "%d routes, match mode %s, max %d redirects", a.tree.Len(), a.tree.MatchMode(), a.tree.MaxRedirects())
			return nil
		},
	}
	return cmd
}

func formatNode(n *router.Node) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", n.Depth()))
	sb.WriteString(bold(n.Pattern()))
	if n.IsIndex() {
		sb.WriteString(dim(" (index)"))
	}
	if n.Name() != "" {
		sb.WriteString(" " + green(n.Name()))
	}
	if n.Redirect() != "" {
		sb.WriteString(" → " + yellow(n.Redirect()))
	}
	if slots := n.Slots(); len(slots) > 0 {
		names := make([]string, 0, len(slots))
		for name := range slots {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(dim(" [" + strings.Join(names, ", ") + "]"))
	}
	return sb.String()
}
