package client

import (
	"context"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

func (c *Client) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	if err := c.get(ctx, &tenants, "/api/tenants"); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (c *Client) GetTenant(ctx context.Context, id int64) (*model.Tenant, error) {
	var t model.Tenant
	if err := c.get(ctx, &t, "/api/tenants/%d", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTenant(ctx context.Context, in model.Tenant) (*model.Tenant, error) {
	var t model.Tenant
	if err := c.post(ctx, in, &t, "/api/tenants"); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTenant(ctx context.Context, id int64, in model.Tenant) (*model.Tenant, error) {
	in.ID = id
	var t model.Tenant
	if err := c.put(ctx, in, &t, "/api/tenants/%d", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTenant(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/tenants/%d", id)
}
