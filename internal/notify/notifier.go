// Package notify defines the notification interface and implementations
// for price drop alert delivery.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// AlertPayload contains the data needed to send a price drop notification.
type AlertPayload struct {
	ProductID          string
	Title              string
	OldPrice           decimal.Decimal
	NewPrice           decimal.Decimal
	PercentageDecrease decimal.Decimal
	Threshold          decimal.Decimal
	AdminURL           string
}

// NewAlertPayload builds the payload for a decision that crossed the
// threshold. shop may be empty, in which case no admin link is included.
func NewAlertPayload(d *domain.PriceDecision, shop string) *AlertPayload {
	a := &AlertPayload{
		ProductID:          d.ProductID,
		Title:              d.Title,
		OldPrice:           d.OldPrice,
		NewPrice:           d.NewPrice,
		PercentageDecrease: d.PercentageDecrease,
		Threshold:          d.Threshold,
	}
	if shop != "" {
		a.AdminURL = fmt.Sprintf("https://%s/admin/products/%s", shop, d.ProductID)
	}
	return a
}

// Notifier defines the interface for sending price drop notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
}

// MultiNotifier fans an alert out to every configured notifier.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier combines notifiers. Every notifier is attempted even
// when an earlier one fails.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Len returns the number of wrapped notifiers.
func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

// SendAlert sends the alert to all notifiers and joins their errors.
func (m *MultiNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.SendAlert(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
