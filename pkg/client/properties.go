package client

import (
	"context"
	"net/http"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

func (c *Client) ListProperties(ctx context.Context) ([]model.Property, error) {
	var props []model.Property
	if err := c.get(ctx, &props, "/api/properties"); err != nil {
		return nil, err
	}
	return props, nil
}

func (c *Client) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	var p model.Property
	if err := c.get(ctx, &p, "/api/properties/%d", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProperty(ctx context.Context, in model.Property) (*model.Property, error) {
	var p model.Property
	if err := c.post(ctx, in, &p, "/api/properties"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id int64, in model.Property) (*model.Property, error) {
	in.ID = id
	var p model.Property
	if err := c.put(ctx, in, &p, "/api/properties/%d", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/properties/%d", id)
}

// CreatePropertyStructure creates a property with its floors and units.
// It returns the API's confirmation message.
func (c *Client) CreatePropertyStructure(ctx context.Context, in model.PropertyStructure) (string, error) {
	if in.PropertyName == "" {
		return "", Validation("Property name is required")
	}
	if in.FloorCount < 1 || in.UnitsPerFloor < 1 {
		return "", Validation("A property needs at least one floor and one unit per floor")
	}
	var res ActionResult
	if err := c.post(ctx, in, &res, "/api/properties/create-property"); err != nil {
		return "", err
	}
	if err := checkResult(http.MethodPost, "/api/properties/create-property", res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// PropertyStats returns the dashboard counters of one property.
func (c *Client) PropertyStats(ctx context.Context, id int64) (*model.PropertyStats, error) {
	var s model.PropertyStats
	if err := c.get(ctx, &s, "/api/dashboard/property/%d/stats", id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListFloors(ctx context.Context, propertyID int64) ([]model.Floor, error) {
	var floors []model.Floor
	if err := c.get(ctx, &floors, "/api/floors/property/%d", propertyID); err != nil {
		return nil, err
	}
	return floors, nil
}
