package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

type paymentsPage struct {
	view.Page[[]model.Payment]
	Filter     view.PaymentFilter
	Summary    view.PaymentSummary
	Properties []model.Property
	Statuses   []model.PaymentStatus
}

// ListPayments shows the payments matching ?status= and ?property=.
func (h *Handler) ListPayments(c echo.Context) error {
	log := logger.FromEcho(c)

	var filter view.PaymentFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		log.Warn("Invalid payment filter", zap.Error(err))
	}
	if filter.Status == "" {
		filter.Status = view.FilterAll
	}
	if filter.Property == "" {
		filter.Property = view.FilterAll
	}

	payments, err := api(c).ListPayments(reqCtx(c))
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	filtered := view.FilterPayments(payments, filter)
	log.Info("Payments retrieved",
		zap.Int("count", len(payments)),
		zap.Int("shown", len(filtered)),
		zap.String("status", filter.Status),
		zap.String("property", filter.Property))

	return h.render(c, "payments", "Payments", "payments", paymentsPage{
		Page:       view.Load(filtered, err),
		Filter:     filter,
		Summary:    view.SummarisePayments(filtered),
		Properties: view.UniqueProperties(payments),
		Statuses:   model.PaymentStatuses,
	})
}

type paymentDetails struct {
	Payment  *model.Payment
	Statuses []model.PaymentStatus
}

// ShowPayment shows one payment with its tenancy.
func (h *Handler) ShowPayment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	payment, err := api(c).GetPayment(reqCtx(c), id)
	if client.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	if done, rerr := loadError(c, err); done {
		return rerr
	}
	d := paymentDetails{Payment: payment, Statuses: model.PaymentStatuses}
	return h.render(c, "payment", "Payment", "payments", view.Load(d, err))
}

// UpdatePaymentStatus changes the status of one payment.
func (h *Handler) UpdatePaymentStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	status := model.PaymentStatus(c.FormValue("status"))
	_, err = api(c).UpdatePaymentStatus(reqCtx(c), id, status)
	return finish(c, "payment", "status", err,
		fmt.Sprintf("Payment marked %s", status), "Failed to update payment status",
		backTo(c, "/payments"))
}
