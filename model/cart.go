package models

import "github.com/shopspring/decimal"

// CartItem is one product line in a user's cart. ProductName, UnitPrice and
// TotalPrice are filled in by the backend on reads.
type CartItem struct {
	ID          int64           `json:"id,omitempty"`
	UserID      int64           `json:"userId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// ItemCount sums quantities across items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
