// Package validate checks generated dashboards and rules for PromQL that
// does not parse or references metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/shopify-price-alerts/tools/dashgen/rules"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation produced no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus target in the dashboard, including
// panels nested in rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) *Result {
	res := &Result{}
	for _, p := range dash.Panels {
		if p.Panel != nil {
			checkPanel(res, *p.Panel, known)
		}
		if p.RowPanel != nil {
			for _, inner := range p.RowPanel.Panels {
				checkPanel(res, inner, known)
			}
		}
	}
	return res
}

// Rules validates the expressions in a PrometheusRule CR. Metrics defined
// by recording rules in the same CR count as known.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	res := &Result{}

	all := make(map[string]bool, len(known))
	for k, v := range known {
		all[k] = v
	}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			if r.Record != "" {
				all[r.Record] = true
			}
		}
	}

	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Name()
			if name == "" {
				res.errorf("group %s: rule has neither record nor alert", g.Name)
				continue
			}
			checkExpr(res, g.Name+"/"+name, r.Expr, all)
		}
	}
	return res
}

func checkPanel(res *Result, p dashboard.Panel, known map[string]bool) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no targets", title)
	}
	for _, t := range p.Targets {
		expr, err := targetExpr(t)
		if err != nil {
			res.errorf("panel %q: %v", title, err)
			continue
		}
		checkExpr(res, "panel "+title, expr, known)
	}
}

// targetExpr extracts the PromQL expression from a panel target via its
// JSON form, which is stable across dataquery variants.
func targetExpr(target any) (string, error) {
	data, err := json.Marshal(target)
	if err != nil {
		return "", fmt.Errorf("marshaling target: %w", err)
	}
	var q struct {
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(data, &q); err != nil {
		return "", fmt.Errorf("decoding target: %w", err)
	}
	return q.Expr, nil
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: parsing %q: %v", where, expr, err)
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[metricName(vs.Name)] {
			res.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

// metricName maps histogram series back to the metric family name.
func metricName(series string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(series, suffix); ok {
			return base
		}
	}
	return series
}
