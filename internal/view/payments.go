package view

import (
	"strconv"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
)

// FilterAll disables a filter predicate.
const FilterAll = "all"

// PaymentFilter holds the two selectors of the payments page. An empty value
// behaves like FilterAll.
type PaymentFilter struct {
	Status   string `query:"status"`
	Property string `query:"property"`
}

func (f PaymentFilter) matches(p model.Payment) bool {
	if f.Status != "" && f.Status != FilterAll && string(p.PaymentStatus) != f.Status {
		return false
	}
	if f.Property != "" && f.Property != FilterAll && strconv.FormatInt(p.Property.ID, 10) != f.Property {
		return false
	}
	return true
}

// FilterPayments returns the payments that satisfy both selectors, in input order.
func FilterPayments(payments []model.Payment, f PaymentFilter) []model.Payment {
	out := make([]model.Payment, 0, len(payments))
	for _, p := range payments {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// UniqueProperties lists the properties referenced by payments, first seen first.
func UniqueProperties(payments []model.Payment) []model.Property {
	seen := make(map[int64]struct{})
	var out []model.Property
	for _, p := range payments {
		if _, ok := seen[p.Property.ID]; ok {
			continue
		}
		seen[p.Property.ID] = struct{}{}
		out = append(out, p.Property)
	}
	return out
}

// PaymentSummary aggregates a payment list for the summary cards.
type PaymentSummary struct {
	Count    int
	Total    float64
	ByStatus map[model.PaymentStatus]int
}

// SummarisePayments counts payments per status and totals their amounts.
func SummarisePayments(payments []model.Payment) PaymentSummary {
	s := PaymentSummary{ByStatus: make(map[model.PaymentStatus]int, len(model.PaymentStatuses))}
	for _, st := range model.PaymentStatuses {
		s.ByStatus[st] = 0
	}
	for _, p := range payments {
		s.Count++
		s.Total += p.Amount
		s.ByStatus[p.PaymentStatus]++
	}
	return s
}

// PendingPayments keeps only the payments still waiting to be settled.
func PendingPayments(payments []model.Payment) []model.Payment {
	return FilterPayments(payments, PaymentFilter{Status: string(model.PaymentPending)})
}

// SelectedTotal sums the amounts of the payments whose id is selected.
func SelectedTotal(payments []model.Payment, selected []int64) float64 {
	want := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	var total float64
	for _, p := range payments {
		if _, ok := want[p.ID]; ok {
			total += p.Amount
		}
	}
	return total
}

// ValidatePaymentBatch checks a process-payment form before it is sent.
func ValidatePaymentBatch(tenancies []model.UnitTenancy, batch model.PaymentBatch) error {
	switch {
	case len(batch.PendingPaymentIDs) == 0:
		return client.Validation("Please select at least one payment to process")
	case batch.Amount <= 0:
		return client.Validation("Please enter a valid payment amount")
	case len(tenancies) == 0:
		return client.Validation("No tenant information available")
	}
	return nil
}
