package client

import (
	"context"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, &users, "/api/users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := c.get(ctx, &u, "/api/users/%d", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in model.NewUser) (*model.User, error) {
	var u model.User
	if err := c.put(ctx, in, &u, "/api/users/%d", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/users/%d", id)
}
