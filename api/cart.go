package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	models "storefront/model"
)

type addCartItemReq struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

type cartTotalResp struct {
	Total decimal.Decimal `json:"total"`
}

// CartItems calls GET /cart/user/{userId}.
func (c *Client) CartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var out []models.CartItem
	err := c.do(ctx, http.MethodGet, idPath("/cart/user/%d", userID), nil, nil, &out)
	return out, err
}

// AddCartItem calls POST /cart. Only user, product and quantity are sent.
func (c *Client) AddCartItem(ctx context.Context, item models.CartItem) (models.CartItem, error) {
	req := addCartItemReq{UserID: item.UserID, ProductID: item.ProductID, Quantity: item.Quantity}
	var out models.CartItem
	err := c.do(ctx, http.MethodPost, "/cart", nil, req, &out)
	return out, err
}

// UpdateCartItem calls PUT /cart/{itemId} with the new quantity.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (models.CartItem, error) {
	var out models.CartItem
	err := c.do(ctx, http.MethodPut, idPath("/cart/%d", itemID), nil, updateCartItemReq{Quantity: quantity}, &out)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/cart/%d", itemID), nil, nil, nil)
}

// ClearCart calls DELETE /cart/user/{userId}.
func (c *Client) ClearCart(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/cart/user/%d", userID), nil, nil, nil)
}

// CartTotal calls GET /cart/user/{userId}/total.
func (c *Client) CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var out cartTotalResp
	if err := c.do(ctx, http.MethodGet, idPath("/cart/user/%d/total", userID), nil, nil, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Total, nil
}

// Checkout calls POST /cart/user/{userId}/checkout.
func (c *Client) Checkout(ctx context.Context, userID int64) (models.CheckoutResult, error) {
	var out models.CheckoutResult
	err := c.do(ctx, http.MethodPost, idPath("/cart/user/%d/checkout", userID), nil, nil, &out)
	return out, err
}
