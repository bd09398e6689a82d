package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/console/pkg/router"
)

func testTree(t *testing.T) *router.Tree {
	t.Helper()
	tree, err := router.Build([]router.Declaration{
		{
			Path:     "secret",
			Name:     "secret",
			Redirect: "secret/credentials",
			Children: []router.Declaration{
				{Path: "credentials", Name: "credentials"},
			},
		},
		{Path: "loop", Redirect: "/loop"},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

// gather returns the metric families of reg by name.
func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func statusCount(t *testing.T, families map[string]*dto.MetricFamily, status string) float64 {
	t.Helper()
	f, ok := families["console_router_resolves_total"]
	if !ok {
		return 0
	}
	for _, m := range f.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "status" && l.GetValue() == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPrometheusRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	resolver := router.Wrap(testTree(t), Prometheus(WithRegistry(reg)))
	ctx := context.Background()

	if _, err := resolver.Resolve(ctx, "/secret"); err != nil {
		t.Fatalf("Resolve(/secret) error: %v", err)
	}
	if _, err := resolver.Resolve(ctx, "/secret/credentials"); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if _, err := resolver.Resolve(ctx, "/missing"); !errors.Is(err, router.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if _, err := resolver.Resolve(ctx, "/loop"); !errors.Is(err, router.ErrRedirectLoop) {
		t.Fatalf("error = %v, want ErrRedirectLoop", err)
	}

	families := gather(t, reg)
	if got := statusCount(t, families, StatusOK); got != 2 {
		t.Errorf("resolves_total{ok} = %v, want 2", got)
	}
	if got := statusCount(t, families, StatusNotFound); got != 1 {
		t.Errorf("resolves_total{not_found} = %v, want 1", got)
	}
	if got := statusCount(t, families, StatusRedirectLoop); got != 1 {
		t.Errorf("resolves_total{redirect_loop} = %v, want 1", got)
	}

	redirects := families["console_router_redirects_total"]
	if redirects == nil || redirects.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("redirects_total = %v, want 1", redirects)
	}

	duration := families["console_router_resolve_duration_seconds"]
	if duration == nil || duration.GetMetric()[0].GetHistogram().GetSampleCount() != 4 {
		t.Errorf("resolve_duration_seconds samples = %v, want 4", duration)
	}
}

func TestPrometheusOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	resolver := router.Wrap(testTree(t), Prometheus(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("nav"),
		WithConstLabels(prometheus.Labels{"section": "secret"}),
		WithBuckets([]float64{0.001, 0.01}),
	))
	if _, err := resolver.Resolve(context.Background(), "/secret/credentials"); err != nil {
		t.Fatal(err)
	}

	families := gather(t, reg)
	f, ok := families["app_nav_resolves_total"]
	if !ok {
		t.Fatalf("app_nav_resolves_total not registered; got %v", families)
	}
	var section string
	for _, l := range f.GetMetric()[0].GetLabel() {
		if l.GetName() == "section" {
			section = l.GetValue()
		}
	}
	if section != "secret" {
		t.Errorf("const label section = %q", section)
	}
	h := families["app_nav_resolve_duration_seconds"].GetMetric()[0].GetHistogram()
	if len(h.GetBucket()) != 2 {
		t.Errorf("buckets = %d, want 2", len(h.GetBucket()))
	}
}

func TestPrometheusSharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	tree := testTree(t)

	a := router.Wrap(tree, Prometheus(WithRegistry(reg)))
	b := router.Wrap(tree, Prometheus(WithRegistry(reg)))

	if _, err := a.Resolve(context.Background(), "/secret/credentials"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Resolve(context.Background(), "/secret/credentials"); err != nil {
		t.Fatal(err)
	}
	if got := statusCount(t, gather(t, reg), StatusOK); got != 2 {
		t.Errorf("resolves_total{ok} = %v, want 2", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, StatusOK},
		{router.ErrNotFound, StatusNotFound},
		{router.ErrRedirectLoop, StatusRedirectLoop},
		{context.Canceled, StatusCanceled},
		{context.DeadlineExceeded, StatusCanceled},
		{errors.New("boom"), StatusError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
