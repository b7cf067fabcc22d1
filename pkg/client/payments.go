package client

import (
	"context"
	"net/http"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// PaymentsProcessed is the response of the process-payment endpoint.
type PaymentsProcessed struct {
	ActionResult
	PaymentIDs []int64 `json:"paymentIds"`
}

func (c *Client) ListPayments(ctx context.Context) ([]model.Payment, error) {
	return c.payments(ctx, "/api/payments")
}

func (c *Client) ListPaymentsByTenancy(ctx context.Context, tenancyID int64) ([]model.Payment, error) {
	return c.payments(ctx, "/api/payments/unit-tenancy/%d", tenancyID)
}

func (c *Client) ListPaymentsByProperty(ctx context.Context, propertyID int64) ([]model.Payment, error) {
	return c.payments(ctx, "/api/payments/property/%d", propertyID)
}

func (c *Client) payments(ctx context.Context, endpoint string, args ...any) ([]model.Payment, error) {
	var list []model.Payment
	if err := c.get(ctx, &list, endpoint, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetPayment(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	if err := c.get(ctx, &p, "/api/payments/%d", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) (*model.Payment, error) {
	if !status.Valid() {
		return nil, Validation("Unknown payment status %q", status)
	}
	var p model.Payment
	if err := c.patch(ctx, statusUpdate{Status: string(status)}, &p, "/api/payments/%d/status", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProcessPayments settles a batch of pending payments and returns the ids the API recorded.
func (c *Client) ProcessPayments(ctx context.Context, batch model.PaymentBatch) ([]int64, error) {
	if len(batch.PendingPaymentIDs) == 0 {
		return nil, Validation("Select at least one payment")
	}
	if batch.Amount <= 0 {
		return nil, Validation("Amount must be greater than zero")
	}
	var res PaymentsProcessed
	if err := c.post(ctx, batch, &res, "/api/payments/process-payment"); err != nil {
		return nil, err
	}
	if err := checkResult(http.MethodPost, "/api/payments/process-payment", res.ActionResult); err != nil {
		return nil, err
	}
	return res.PaymentIDs, nil
}
