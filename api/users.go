package api

import (
	"context"
	"net/http"
	"net/url"

	models "storefront/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, idPath("/users/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPost, "/users", nil, u, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, u models.User) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPut, idPath("/users/%d", id), nil, u, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/users/%d", id), nil, nil, nil)
}

func (c *Client) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil, nil, &out)
	return out, err
}
