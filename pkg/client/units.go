package client

import (
	"context"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

type statusUpdate struct {
	Status string `json:"status"`
}

func (c *Client) ListUnits(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	if err := c.get(ctx, &units, "/api/units"); err != nil {
		return nil, err
	}
	return units, nil
}

func (c *Client) ListUnitsByProperty(ctx context.Context, propertyID int64) ([]model.Unit, error) {
	var units []model.Unit
	if err := c.get(ctx, &units, "/api/units/property/%d", propertyID); err != nil {
		return nil, err
	}
	return units, nil
}

// ListUnitsByPropertyAndStatus is used to offer the available units of a property.
func (c *Client) ListUnitsByPropertyAndStatus(ctx context.Context, propertyID int64, status model.UnitStatus) ([]model.Unit, error) {
	var units []model.Unit
	if err := c.get(ctx, &units, "/api/units/property/%d/status/%s", propertyID, string(status)); err != nil {
		return nil, err
	}
	return units, nil
}

func (c *Client) GetUnit(ctx context.Context, id int64) (*model.Unit, error) {
	var u model.Unit
	if err := c.get(ctx, &u, "/api/units/%d", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUnit(ctx context.Context, in model.Unit) (*model.Unit, error) {
	var u model.Unit
	if err := c.post(ctx, in, &u, "/api/units"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUnit(ctx context.Context, id int64, in model.Unit) (*model.Unit, error) {
	in.ID = id
	var u model.Unit
	if err := c.put(ctx, in, &u, "/api/units/%d", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUnitStatus(ctx context.Context, id int64, status model.UnitStatus) (*model.Unit, error) {
	if !status.Valid() {
		return nil, Validation("Unknown unit status %q", status)
	}
	var u model.Unit
	if err := c.patch(ctx, statusUpdate{Status: string(status)}, &u, "/api/units/%d/status", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUnit(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/units/%d", id)
}
