package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/api/handlers"
	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
)

// fakeReconciler implements Reconciler for testing.
type fakeReconciler struct {
	res    *engine.ReconcileResult
	err    error
	called bool
}

func (f *fakeReconciler) RunReconcile(_ context.Context) (*engine.ReconcileResult, error) {
	f.called = true
	return f.res, f.err
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reconciler   *fakeReconciler
		wantStatus   int
		wantContains []string
	}{
		{
			name:         "clean run",
			reconciler:   &fakeReconciler{res: &engine.ReconcileResult{Checked: 3, Alerts: 1}},
			wantStatus:   http.StatusOK,
			wantContains: []string{`"status":"reconcile completed"`, `"checked":3`, `"alerts":1`},
		},
		{
			name: "partial failure is reported in the body",
			reconciler: &fakeReconciler{
				res: &engine.ReconcileResult{Checked: 1, Failed: 2},
				err: errors.Join(errors.New("product 2: not found"), errors.New("product 3: timeout")),
			},
			wantStatus: http.StatusOK,
			wantContains: []string{
				"reconcile completed with errors",
				`"failed":2`,
				"product 2: not found",
				"product 3: timeout",
			},
		},
		{
			name: "nothing checked",
			reconciler: &fakeReconciler{
				res: &engine.ReconcileResult{},
				err: errors.New("price history unavailable"),
			},
			wantStatus:   http.StatusInternalServerError,
			wantContains: []string{"reconcile failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterReconcileRoutes(api, handlers.NewReconcileHandler(tt.reconciler))

			resp := api.Post("/api/v1/reconcile")
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.True(t, tt.reconciler.called)
			for _, s := range tt.wantContains {
				assert.Contains(t, resp.Body.String(), s)
			}
		})
	}
}
