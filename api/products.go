package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	models "storefront/model"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/products", nil, nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, idPath("/products/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/products", nil, p, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, idPath("/products/%d", id), nil, p, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/products/%d", id), nil, nil, nil)
}

// SearchProducts calls GET /products/search?name=.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/products/search", url.Values{"name": {name}}, nil, &out)
	return out, err
}

// ProductsByPriceRange calls GET /products/price-range?minPrice=&maxPrice=.
func (c *Client) ProductsByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]models.Product, error) {
	q := url.Values{
		"minPrice": {minPrice.String()},
		"maxPrice": {maxPrice.String()},
	}
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/products/price-range", q, nil, &out)
	return out, err
}
