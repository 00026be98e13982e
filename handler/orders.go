package handler

import (
	"net/http"
	"strconv"

	models "storefront/model"
)

type ordersPage struct {
	Orders []models.Order
	Open   int64
}

// OrdersPage handles GET /orders. ?open={id} expands that order's details.
func (h *Handler) OrdersPage(w http.ResponseWriter, r *http.Request) {
	v, sh := h.baseView(w, r)
	var p ordersPage
	if sh.User != nil {
		orders, err := h.svc.LoadOrders(r.Context(), sh.User)
		if err != nil {
			v.Flash = h.failureFlash(r, err)
		}
		p.Orders = orders
	}
	if id, err := strconv.ParseInt(r.URL.Query().Get("open"), 10, 64); err == nil {
		p.Open = id
	}
	v.Page = p
	h.render(w, http.StatusOK, "orders", v)
}

// UpdateOrderStatus handles POST /orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	back := "/orders?open=" + strconv.FormatInt(id, 10)
	msg, err := h.svc.UpdateOrderStatus(r.Context(), id, r.FormValue("status"))
	if err != nil {
		h.fail(w, r, back, err)
		return
	}
	h.succeed(w, r, back, msg)
}
