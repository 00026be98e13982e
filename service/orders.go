package service

import (
	"context"

	models "storefront/model"
)

func (s *Service) LoadOrders(ctx context.Context, u *models.User) ([]models.Order, error) {
	if u == nil {
		return nil, nil
	}
	orders, err := s.backend.OrdersByUser(ctx, u.ID)
	if err != nil {
		return nil, fail(msgLoadOrders, err)
	}
	return orders, nil
}

// UpdateOrderStatus forwards the change as is. Which transitions are legal
// is decided by the backend; the page only offers the usual next steps.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (string, error) {
	st, err := models.ParseOrderStatus(status)
	if err != nil {
		return "", fail(msgUnknownStatus, err)
	}
	if _, err := s.backend.UpdateOrderStatus(ctx, orderID, st); err != nil {
		return "", fail(msgUpdateStatus, err)
	}
	return "Status updated successfully!", nil
}
