package service

import (
	"context"

	"github.com/shopspring/decimal"

	models "storefront/model"
)

// Backend is the slice of the catalog REST API the views need.
// *api.Client satisfies it.
type Backend interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, name string) ([]models.Product, error)
	ProductsByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]models.Product, error)

	CartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, item models.CartItem) (models.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (models.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
	CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error)
	Checkout(ctx context.Context, userID int64) (models.CheckoutResult, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, id int64, u models.User) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	OrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (models.Order, error)
}

type ServiceInterface interface {
	// root shell
	CurrentUser(ctx context.Context, sessionKey string) (*models.User, error)
	SelectUser(ctx context.Context, sessionKey string, u models.User) error
	SelectUserByID(ctx context.Context, sessionKey string, id int64) error
	DeselectUser(ctx context.Context, sessionKey string) error
	CartCount(ctx context.Context, u *models.User) int

	// products
	LoadProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	FilterProducts(ctx context.Context, minPrice, maxPrice string) ([]models.Product, error)
	AddToCart(ctx context.Context, u *models.User, productID int64, productName string) (string, error)

	// cart
	LoadCart(ctx context.Context, u *models.User) (CartView, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, u *models.User) error
	Checkout(ctx context.Context, u *models.User, itemCount int) (string, error)

	// users
	LoadUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, editingID int64, name, email string) (string, error)
	DeleteUser(ctx context.Context, sessionKey string, current *models.User, id int64) (string, error)

	// orders
	LoadOrders(ctx context.Context, u *models.User) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (string, error)
}
