package handler

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/service"
)

type cartPage struct {
	Cart         service.CartView
	ConfirmClear bool
}

// CartPage handles GET /cart
func (h *Handler) CartPage(w http.ResponseWriter, r *http.Request) {
	v, sh := h.baseView(w, r)
	var p cartPage
	if sh.User != nil {
		cart, err := h.svc.LoadCart(r.Context(), sh.User)
		if err != nil {
			v.Flash = h.failureFlash(r, err)
		}
		p.Cart = cart
		p.ConfirmClear = r.URL.Query().Get("confirm") == "clear" && len(cart.Items) > 0
	}
	v.Page = p
	h.render(w, http.StatusOK, "cart", v)
}

// UpdateQuantity handles POST /cart/items/{id}/quantity
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}
	// a typed 0 or garbage means 1; only the minus button drops a line
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || (qty == 0 && r.FormValue("typed") != "") {
		qty = 1
	}
	if err := h.svc.UpdateQuantity(r.Context(), id, qty); err != nil {
		h.fail(w, r, "/cart", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveItem handles POST /cart/items/{id}/remove
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}
	if err := h.svc.RemoveItem(r.Context(), id); err != nil {
		h.fail(w, r, "/cart", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// ClearCart handles POST /cart/clear. Without confirm=yes it asks first.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, "/cart?confirm=clear", http.StatusSeeOther)
		return
	}
	sh := h.currentUser(r)
	if err := h.svc.ClearCart(r.Context(), sh.User); err != nil {
		h.fail(w, r, "/cart", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout handles POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.FormValue("item_count"))
	if err != nil {
		count = 0
	}
	sh := h.currentUser(r)
	msg, err := h.svc.Checkout(r.Context(), sh.User, count)
	if err != nil {
		h.fail(w, r, "/cart", err)
		return
	}
	h.succeed(w, r, "/cart", msg)
}
