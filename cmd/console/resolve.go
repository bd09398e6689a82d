package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/console/pkg/router"
)

// resolveOutput is the JSON form of a navigation.
type resolveOutput struct {
	ID             string            `json:"id"`
	Path           string            `json:"path"`
	Query          string            `json:"query,omitempty"`
	Route          string            `json:"route,omitempty"`
	Pattern        string            `json:"pattern"`
	RedirectedFrom []string          `json:"redirectedFrom,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
	Matched        []string          `json:"matched"`
	Breadcrumbs    []router.Crumb    `json:"breadcrumbs,omitempty"`
	Views          map[string]any    `json:"views"`
}

func newResolveOutput(p *router.Page) resolveOutput {
	r := p.Route
	out := resolveOutput{
		ID:             p.ID,
		Path:           r.Path,
		Query:          r.Query,
		Route:          r.Name(),
		Pattern:        r.Node.Pattern(),
		RedirectedFrom: r.RedirectedFrom,
		Params:         r.Params,
		Breadcrumbs:    r.Breadcrumbs,
		Views:          map[string]any{},
	}
	for _, n := range r.Matched {
		out.Matched = append(out.Matched, n.Pattern())
	}
	for i, views := range p.Views {
		for slot, v := range views {
			out.Views[r.Matched[i].Pattern()+"#"+slot] = v
		}
	}
	return out
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	var (
		jsonOut     bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Resolve paths and load their views",
		Long: `Resolve each path the way the console's router does: follow redirects,
match the route tree and load the views of every matched route.

Examples:
  console resolve /secret
  console resolve /secret/credentials-group/42/add --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			nav := router.NewNavigator(a.resolver, router.WithNavigatorLogger(a.logger))
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")

			for _, path := range args {
				page, err := nav.Navigate(cmd.Context(), path)
				if err != nil {
					err = cliError(err)
					if jsonOut {
						writeJSONError(w, err)
					}
					return err
				}
				if jsonOut {
					if err := enc.Encode(newResolveOutput(page)); err != nil {
						return err
					}
					continue
				}
				printPage(w, path, page)
			}

			if showMetrics {
				return printMetrics(w, a.registry)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the resolver metrics afterwards")

	return cmd
}

func printPage(w io.Writer, path string, p *router.Page) {
	r := p.Route
	success(w, "%s → %s", path, bold(r.Path))
	if len(r.RedirectedFrom) > 0 {
		info(w, "Redirected from: %s", strings.Join(r.RedirectedFrom, ", "))
	}
	if name := r.Name(); name != "" {
		info(w, "Route:       %s", green(name))
	}
	info(w, "Pattern:     %s", r.Node.Pattern())
	if len(r.Params) > 0 {
		keys := make([]string, 0, len(r.Params))
		for k := range r.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + r.Params[k]
		}
		info(w, "Params:      %s", strings.Join(pairs, " "))
	}
	if len(r.Breadcrumbs) > 0 {
		labels := make([]string, len(r.Breadcrumbs))
		for i, c := range r.Breadcrumbs {
			labels[i] = c.Label
		}
		info(w, "Breadcrumbs: %s", strings.Join(labels, " › "))
	}
	if v, ok := p.View(router.DefaultSlot); ok {
		info(w, "View:        %v", v)
	}
	info(w, "%s", dim("Navigation "+p.ID))
}

// printMetrics prints the counters and histogram counts of a registry.
func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "  %s%s %s\n", mf.GetName(), formatLabels(m.GetLabel()), formatValue(mf.GetType(), m))
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	pairs := make([]string, len(labels))
	for i, l := range labels {
		pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func formatValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%gs", h.GetSampleCount(), h.GetSampleSum())
	}
	return ""
}
