package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
)

// Reconciler re-checks every tracked product.
type Reconciler interface {
	RunReconcile(ctx context.Context) (*engine.ReconcileResult, error)
}

// ReconcileHandler handles manual reconcile trigger requests.
type ReconcileHandler struct {
	reconciler Reconciler
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(r Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: r}
}

// ReconcileOutput is the response body for the reconcile endpoint.
type ReconcileOutput struct {
	Body struct {
		Status  string   `json:"status" example:"reconcile completed" doc:"Reconcile status"`
		Checked int      `json:"checked" doc:"Products whose price was checked"`
		Alerts  int      `json:"alerts" doc:"Alerts delivered"`
		Failed  int      `json:"failed" doc:"Products that could not be checked or alerted"`
		Errors  []string `json:"errors,omitempty" doc:"Per-product failures"`
	}
}

// Reconcile runs a reconcile pass. Per-product failures are reported in
// the body; the request fails only when nothing could be checked.
func (h *ReconcileHandler) Reconcile(ctx context.Context, _ *struct{}) (*ReconcileOutput, error) {
	res, err := h.reconciler.RunReconcile(ctx)
	if err != nil && (res == nil || res.Checked+res.Failed == 0) {
		return nil, huma.Error500InternalServerError("reconcile failed: " + err.Error())
	}

	resp := &ReconcileOutput{}
	resp.Body.Status = "reconcile completed"
	resp.Body.Checked = res.Checked
	resp.Body.Alerts = res.Alerts
	resp.Body.Failed = res.Failed
	if err != nil {
		resp.Body.Status = "reconcile completed with errors"
		resp.Body.Errors = splitJoined(err)
	}
	return resp, nil
}

// splitJoined unwraps an errors.Join result into its messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs := joined.Unwrap()
		out := make([]string, 0, len(errs))
		for _, e := range errs {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

// RegisterReconcileRoutes registers the reconcile trigger with the Huma API.
func RegisterReconcileRoutes(api huma.API, h *ReconcileHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-reconcile",
		Method:      http.MethodPost,
		Path:        "/api/v1/reconcile",
		Summary:     "Trigger reconcile",
		Description: "Re-fetches every tracked product from Shopify and runs the " +
			"price-drop decision, catching changes whose webhooks were missed.",
		Tags:   []string{"reconcile"},
		Errors: []int{http.StatusInternalServerError},
	}, h.Reconcile)
}
