package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/api"
	models "storefront/model"
	"storefront/store"
)

type Service struct {
	backend Backend
	store   store.Store
	log     *zap.Logger
	money   func(decimal.Decimal) string
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMoneyFormat sets how amounts are written into messages.
func WithMoneyFormat(f func(decimal.Decimal) string) Option {
	return func(s *Service) {
		if f != nil {
			s.money = f
		}
	}
}

func NewService(b Backend, st store.Store, opts ...Option) *Service {
	s := &Service{
		backend: b,
		store:   st,
		log:     zap.NewNop(),
		money:   func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// --- root shell ---

// CurrentUser returns the user selected under sessionKey, or nil when there
// is none.
func (s *Service) CurrentUser(ctx context.Context, sessionKey string) (*models.User, error) {
	if sessionKey == "" {
		return nil, nil
	}
	u, err := s.store.GetSelection(ctx, sessionKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(msgSelection, err)
	}
	return &u, nil
}

func (s *Service) SelectUser(ctx context.Context, sessionKey string, u models.User) error {
	if sessionKey == "" {
		return fail(msgSelection, errors.New("empty session key"))
	}
	if err := s.store.SaveSelection(ctx, sessionKey, u); err != nil {
		return fail(msgSelection, err)
	}
	return nil
}

// SelectUserByID reads user id from the backend and selects that record.
func (s *Service) SelectUserByID(ctx context.Context, sessionKey string, id int64) error {
	u, err := s.backend.GetUser(ctx, id)
	if api.IsNotFound(err) {
		return fail(msgUserNotFound, err)
	}
	if err != nil {
		return fail(msgLoadUser, err)
	}
	return s.SelectUser(ctx, sessionKey, u)
}

func (s *Service) DeselectUser(ctx context.Context, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}
	if err := s.store.DeleteSelection(ctx, sessionKey); err != nil {
		return fail(msgSelection, err)
	}
	return nil
}

// CartCount is the navbar badge: the sum of item quantities in u's cart.
// A failed read counts as an empty cart.
func (s *Service) CartCount(ctx context.Context, u *models.User) int {
	if u == nil {
		return 0
	}
	items, err := s.backend.CartItems(ctx, u.ID)
	if err != nil {
		s.log.Warn("cart count unavailable", zap.Int64("user_id", u.ID), zap.Error(err))
		return 0
	}
	return models.ItemCount(items)
}

// --- products ---

func (s *Service) LoadProducts(ctx context.Context) ([]models.Product, error) {
	ps, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fail(msgLoadProducts, err)
	}
	return ps, nil
}

// SearchProducts falls back to the full list for a blank term.
func (s *Service) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.LoadProducts(ctx)
	}
	ps, err := s.backend.SearchProducts(ctx, term)
	if err != nil {
		return nil, fail(msgSearchProducts, err)
	}
	return ps, nil
}

// FilterProducts needs both bounds; nothing is sent to the backend otherwise.
func (s *Service) FilterProducts(ctx context.Context, minPrice, maxPrice string) ([]models.Product, error) {
	minPrice, maxPrice = strings.TrimSpace(minPrice), strings.TrimSpace(maxPrice)
	if minPrice == "" || maxPrice == "" {
		return nil, fail(msgPriceRange, nil)
	}
	lo, err := decimal.NewFromString(minPrice)
	if err != nil {
		return nil, fail(msgPriceNumbers, nil)
	}
	hi, err := decimal.NewFromString(maxPrice)
	if err != nil {
		return nil, fail(msgPriceNumbers, nil)
	}
	ps, err := s.backend.ProductsByPriceRange(ctx, lo, hi)
	if err != nil {
		return nil, fail(msgFilterProducts, err)
	}
	return ps, nil
}

// AddToCart puts one unit of the product into u's cart.
func (s *Service) AddToCart(ctx context.Context, u *models.User, productID int64, productName string) (string, error) {
	if u == nil {
		return "", fail(msgSelectUser, nil)
	}
	item := models.CartItem{UserID: u.ID, ProductID: productID, Quantity: 1}
	if _, err := s.backend.AddCartItem(ctx, item); err != nil {
		return "", fail(msgAddToCart, err)
	}
	if productName == "" {
		productName = fmt.Sprintf("Product #%d", productID)
	}
	return productName + " added to cart!", nil
}
