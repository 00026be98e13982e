package handler

import (
	"net/http"
	"strings"

	models "storefront/model"
)

type productsPage struct {
	Products []models.Product
	Query    string
	Min      string
	Max      string
	Back     string
}

// ProductsPage handles GET / with optional ?q= search or ?filter=1&min=&max= price range.
func (h *Handler) ProductsPage(w http.ResponseWriter, r *http.Request) {
	v, _ := h.baseView(w, r)
	q := r.URL.Query()
	p := productsPage{
		Query: q.Get("q"),
		Min:   q.Get("min"),
		Max:   q.Get("max"),
		Back:  r.URL.RequestURI(),
	}

	var err error
	switch {
	case q.Get("filter") != "":
		p.Products, err = h.svc.FilterProducts(r.Context(), p.Min, p.Max)
		if err != nil {
			v.Flash = h.failureFlash(r, err)
			p.Products, err = h.svc.LoadProducts(r.Context())
		}
	case strings.TrimSpace(p.Query) != "":
		p.Products, err = h.svc.SearchProducts(r.Context(), p.Query)
	default:
		p.Products, err = h.svc.LoadProducts(r.Context())
	}
	if err != nil {
		v.Flash = h.failureFlash(r, err)
	}
	v.Page = p
	h.render(w, http.StatusOK, "products", v)
}

// AddToCart handles POST /cart/add
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	back := localPath(r.FormValue("back"), "/")
	productID, ok := formID(r, "product_id")
	if !ok {
		h.setFlash(w, &Flash{Level: levelDanger, Message: "Invalid product"})
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	sh := h.currentUser(r)
	msg, err := h.svc.AddToCart(r.Context(), sh.User, productID, r.FormValue("product_name"))
	if err != nil {
		h.fail(w, r, back, err)
		return
	}
	h.succeed(w, r, back, msg)
}
