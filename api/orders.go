package api

import (
	"context"
	"net/http"

	models "storefront/model"
)

type orderStatusReq struct {
	Status models.OrderStatus `json:"status"`
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodGet, idPath("/orders/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, http.MethodGet, idPath("/orders/user/%d", userID), nil, nil, &out)
	return out, err
}

// CreateOrderFromCart calls POST /orders/create-from-cart/{userId}. The cart
// page checks out through Checkout instead.
func (c *Client) CreateOrderFromCart(ctx context.Context, userID int64) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPost, idPath("/orders/create-from-cart/%d", userID), nil, nil, &out)
	return out, err
}

// UpdateOrderStatus calls PUT /orders/{orderId}/status with {"status": ...}.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPut, idPath("/orders/%d/status", orderID), nil, orderStatusReq{Status: status}, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/orders/%d", id), nil, nil, nil)
}
