package client

import (
	"context"
	"net/http"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// TenancyCreated is the response of the complete-tenancy endpoint.
type TenancyCreated struct {
	ActionResult
	TenantID int64 `json:"tenantId"`
}

func (c *Client) ListTenancies(ctx context.Context) ([]model.UnitTenancy, error) {
	return c.tenancies(ctx, "/api/unit-tenancy")
}

func (c *Client) ListTenanciesByTenant(ctx context.Context, tenantID int64) ([]model.UnitTenancy, error) {
	return c.tenancies(ctx, "/api/unit-tenancy/tenant/%d", tenantID)
}

func (c *Client) ListTenanciesByUnit(ctx context.Context, unitID int64) ([]model.UnitTenancy, error) {
	return c.tenancies(ctx, "/api/unit-tenancy/unit/%d", unitID)
}

func (c *Client) ListTenanciesByProperty(ctx context.Context, propertyID int64) ([]model.UnitTenancy, error) {
	return c.tenancies(ctx, "/api/unit-tenancy/property/%d", propertyID)
}

func (c *Client) tenancies(ctx context.Context, endpoint string, args ...any) ([]model.UnitTenancy, error) {
	var list []model.UnitTenancy
	if err := c.get(ctx, &list, endpoint, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetTenancy(ctx context.Context, id int64) (*model.UnitTenancy, error) {
	var t model.UnitTenancy
	if err := c.get(ctx, &t, "/api/unit-tenancy/%d", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func validateTenancy(in model.TenancyInput) error {
	if in.UnitID == 0 || in.TenantID == 0 {
		return Validation("Select a unit and a tenant")
	}
	if in.StartDate.IsZero() {
		return Validation("Start date is required")
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate.Time) {
		return Validation("End date must not be before the start date")
	}
	return nil
}

func (c *Client) CreateTenancy(ctx context.Context, in model.TenancyInput) (*model.UnitTenancy, error) {
	if err := validateTenancy(in); err != nil {
		return nil, err
	}
	var t model.UnitTenancy
	if err := c.post(ctx, in, &t, "/api/unit-tenancy"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTenancy(ctx context.Context, id int64, in model.TenancyInput) (*model.UnitTenancy, error) {
	if err := validateTenancy(in); err != nil {
		return nil, err
	}
	var t model.UnitTenancy
	if err := c.put(ctx, in, &t, "/api/unit-tenancy/%d", id); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateCompleteTenancy registers a new tenant and assigns the given units in one call.
// It returns the id of the created tenant.
func (c *Client) CreateCompleteTenancy(ctx context.Context, in model.CompleteTenancy) (int64, error) {
	switch {
	case in.PropertyID == 0:
		return 0, Validation("Select a property")
	case len(in.UnitIDs) == 0:
		return 0, Validation("Select at least one unit")
	case in.FirstName == "":
		return 0, Validation("First name is required")
	}
	var res TenancyCreated
	if err := c.post(ctx, in, &res, "/api/unit-tenancy/create-complete"); err != nil {
		return 0, err
	}
	if err := checkResult(http.MethodPost, "/api/unit-tenancy/create-complete", res.ActionResult); err != nil {
		return 0, err
	}
	return res.TenantID, nil
}

// TerminateTenancy ends a tenancy on endDate.
func (c *Client) TerminateTenancy(ctx context.Context, id int64, endDate model.Date) error {
	body := struct {
		EndDate model.Date `json:"endDate"`
	}{EndDate: endDate}
	return c.patch(ctx, body, nil, "/api/unit-tenancy/%d/end", id)
}

func (c *Client) DeleteTenancy(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/unit-tenancy/%d", id)
}
