package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	models "storefront/model"
)

// CartView is what the cart page shows.
type CartView struct {
	Items []models.CartItem
	Total decimal.Decimal
}

// LoadCart reads the items and the total together. They land in disjoint
// fields so completion order does not matter.
func (s *Service) LoadCart(ctx context.Context, u *models.User) (CartView, error) {
	var view CartView
	if u == nil {
		return view, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.backend.CartItems(gctx, u.ID)
		view.Items = items
		return err
	})
	g.Go(func() error {
		total, err := s.backend.CartTotal(gctx, u.ID)
		view.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return CartView{}, fail(msgLoadCart, err)
	}
	return view, nil
}

// UpdateQuantity removes the item instead when quantity drops below 1.
func (s *Service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, itemID)
	}
	if _, err := s.backend.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return fail(msgUpdateQuantity, err)
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	if err := s.backend.RemoveCartItem(ctx, itemID); err != nil {
		return fail(msgRemoveItem, err)
	}
	return nil
}

func (s *Service) ClearCart(ctx context.Context, u *models.User) error {
	if u == nil {
		return fail(msgSelectUser, nil)
	}
	if err := s.backend.ClearCart(ctx, u.ID); err != nil {
		return fail(msgClearCart, err)
	}
	return nil
}

// Checkout turns u's cart into an order. itemCount is the number of lines
// the visitor saw on the cart page; an empty cart is refused without
// contacting the backend.
func (s *Service) Checkout(ctx context.Context, u *models.User, itemCount int) (string, error) {
	if u == nil {
		return "", fail(msgSelectUser, nil)
	}
	if itemCount <= 0 {
		return "", fail(msgEmptyCart, nil)
	}
	res, err := s.backend.Checkout(ctx, u.ID)
	if err != nil {
		return "", fail(msgCheckout, err)
	}
	if !res.Success {
		return "", fail("Error: "+res.Message, nil)
	}
	return fmt.Sprintf("%s Order #%d. Total: %s", res.Message, res.OrderID, s.money(res.Total)), nil
}
