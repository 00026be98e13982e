package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// transitions lists the statuses an order may move to from its current one.
// Terminal statuses have no entry.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped},
	StatusShipped:   {StatusDelivered},
}

var statusDisplay = map[OrderStatus]struct{ label, badge string }{
	StatusPending:   {"Pending", "bg-warning"},
	StatusConfirmed: {"Confirmed", "bg-info"},
	StatusShipped:   {"Shipped", "bg-primary"},
	StatusDelivered: {"Delivered", "bg-success"},
	StatusCancelled: {"Cancelled", "bg-danger"},
}

// ParseOrderStatus accepts any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusDisplay[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// NextStatuses returns the statuses offered as actions for an order in status s.
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := transitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is one of s.NextStatuses().
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Label() string {
	if d, ok := statusDisplay[s]; ok {
		return d.label
	}
	return string(s)
}

func (s OrderStatus) BadgeClass() string {
	if d, ok := statusDisplay[s]; ok {
		return d.badge
	}
	return "bg-secondary"
}

type OrderItem struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	UserName    string          `json:"userName"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   Timestamp       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderItem     `json:"items"`
}

// CheckoutResult is the body returned by the cart checkout endpoint.
type CheckoutResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}
