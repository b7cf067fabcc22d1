// Package view derives the tables and counters the console renders from the
// raw API entities. Everything here is pure and recomputed on every request.
package view

import (
	"strings"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// UnitSummary is one tenancy of a grouped tenant.
type UnitSummary struct {
	TenancyID      int64
	UnitID         int64
	UnitNumber     string
	PropertyID     int64
	PropertyName   string
	RentAmount     float64
	Status         model.TenancyStatus
	LeaseStartDate model.Date
	LeaseEndDate   model.Date
}

// GroupedTenant is a tenant together with all of its tenancies.
type GroupedTenant struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Units     []UnitSummary
	TotalRent float64
	Status    model.TenancyStatus
}

// FullName joins first and last name.
func (g GroupedTenant) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// ActiveTenancyIDs returns the ids of the tenancies that are still running.
func (g GroupedTenant) ActiveTenancyIDs() []int64 {
	var ids []int64
	for _, u := range g.Units {
		if u.Status == model.TenancyActive {
			ids = append(ids, u.TenancyID)
		}
	}
	return ids
}

// GroupTenancies folds tenancies into one row per tenant id, in order of first
// appearance. A group is seeded active and is never downgraded, so a tenant
// whose tenancies have all ended still reports active.
func GroupTenancies(tenancies []model.UnitTenancy) []GroupedTenant {
	index := make(map[int64]int, len(tenancies))
	groups := make([]GroupedTenant, 0, len(tenancies))

	for _, t := range tenancies {
		i, ok := index[t.Tenant.ID]
		if !ok {
			first, last := SplitName(t.Tenant.Name)
			groups = append(groups, GroupedTenant{
				ID:        t.Tenant.ID,
				FirstName: first,
				LastName:  last,
				Email:     t.Tenant.Email,
				Phone:     t.Tenant.Phone,
				Status:    model.TenancyActive,
			})
			i = len(groups) - 1
			index[t.Tenant.ID] = i
		}

		g := &groups[i]
		status := model.TenancyInactive
		if t.Active() {
			status = model.TenancyActive
		}
		g.Units = append(g.Units, UnitSummary{
			TenancyID:      t.ID,
			UnitID:         t.Unit.ID,
			UnitNumber:     t.Unit.UnitNumber,
			PropertyID:     t.Property.ID,
			PropertyName:   t.Property.Name,
			RentAmount:     t.MonthlyRent,
			Status:         status,
			LeaseStartDate: t.StartDate,
			LeaseEndDate:   t.EndDate,
		})
		g.TotalRent += t.MonthlyRent
	}
	return groups
}

// SplitName splits a full name on whitespace: the first token is the first
// name and the remaining tokens form the last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// TenancyTotalRent sums the monthly rent of the given tenancies.
func TenancyTotalRent(tenancies []model.UnitTenancy) float64 {
	var total float64
	for _, t := range tenancies {
		total += t.MonthlyRent
	}
	return total
}
