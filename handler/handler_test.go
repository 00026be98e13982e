package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storefront/api"
	models "storefront/model"
	"storefront/service"
	"storefront/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// catalog is an in-memory stand-in for the REST backend.
type catalog struct {
	mu       sync.Mutex
	products []models.Product
	users    map[int64]models.User
	cart     map[int64]models.CartItem
	orders   map[int64]models.Order
	nextID   int64
	calls    []string
	bodies   map[string]map[string]interface{}

	checkout models.CheckoutResult
}

func newCatalog() *catalog {
	return &catalog{
		products: []models.Product{
			{ID: 1, Name: "Laptop", Description: "14 inch", Price: decimal.RequireFromString("1234.5")},
			{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("20")},
		},
		users: map[int64]models.User{
			1: {ID: 1, Name: "Ana", Email: "ana@example.com"},
			2: {ID: 2, Name: "Bruno", Email: "bruno@example.com"},
		},
		cart:   map[int64]models.CartItem{},
		orders: map[int64]models.Order{},
		nextID: 100,
		bodies: map[string]map[string]interface{}{},
		checkout: models.CheckoutResult{
			Success: true, Message: "Order created successfully!", OrderID: 7,
			Total: decimal.RequireFromString("1234.5"),
		},
	}
}

func (c *catalog) called(call string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

func (c *catalog) count(call string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, got := range c.calls {
		if got == call {
			n++
		}
	}
	return n
}

func (c *catalog) body(call string) map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bodies[call]
}

func (c *catalog) addCartItem(it models.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart[it.ID] = it
}

func (c *catalog) addOrder(o models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[o.ID] = o
}

func reply(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func varID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func (c *catalog) router() http.Handler {
	r := mux.NewRouter()
	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			call := req.Method + " " + req.URL.Path
			var body map[string]interface{}
			_ = json.NewDecoder(req.Body).Decode(&body)
			c.mu.Lock()
			c.calls = append(c.calls, call)
			c.bodies[call] = body
			c.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	sub.HandleFunc("/products", func(w http.ResponseWriter, _ *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		reply(w, http.StatusOK, c.products)
	}).Methods("GET")
	sub.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		var out []models.Product
		for _, p := range c.products {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(r.URL.Query().Get("name"))) {
				out = append(out, p)
			}
		}
		reply(w, http.StatusOK, out)
	}).Methods("GET")
	sub.HandleFunc("/products/price-range", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		lo := decimal.RequireFromString(r.URL.Query().Get("minPrice"))
		hi := decimal.RequireFromString(r.URL.Query().Get("maxPrice"))
		var out []models.Product
		for _, p := range c.products {
			if p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi) {
				out = append(out, p)
			}
		}
		reply(w, http.StatusOK, out)
	}).Methods("GET")

	sub.HandleFunc("/users", func(w http.ResponseWriter, _ *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := []models.User{}
		for id := int64(1); id <= c.nextID; id++ {
			if u, ok := c.users[id]; ok {
				out = append(out, u)
			}
		}
		reply(w, http.StatusOK, out)
	}).Methods("GET")
	sub.HandleFunc("/users/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		u, ok := c.users[varID(r)]
		if !ok {
			reply(w, http.StatusNotFound, map[string]string{"message": "user not found"})
			return
		}
		reply(w, http.StatusOK, u)
	}).Methods("GET")
	saveUser := func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		body := c.bodies[r.Method+" "+r.URL.Path]
		u := models.User{ID: varID(r), Name: body["name"].(string), Email: body["email"].(string)}
		for _, other := range c.users {
			if other.Email == u.Email && other.ID != u.ID {
				reply(w, http.StatusBadRequest, map[string]string{"message": "email taken"})
				return
			}
		}
		if u.ID == 0 {
			c.nextID++
			u.ID = c.nextID
		}
		c.users[u.ID] = u
		reply(w, http.StatusOK, u)
	}
	sub.HandleFunc("/users", saveUser).Methods("POST")
	sub.HandleFunc("/users/{id:[0-9]+}", saveUser).Methods("PUT")
	sub.HandleFunc("/users/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.users, varID(r))
		w.WriteHeader(http.StatusNoContent)
	}).Methods("DELETE")

	sub.HandleFunc("/cart/user/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := []models.CartItem{}
		for _, it := range c.cart {
			if it.UserID == varID(r) {
				out = append(out, it)
			}
		}
		reply(w, http.StatusOK, out)
	}).Methods("GET")
	sub.HandleFunc("/cart/user/{id:[0-9]+}/total", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		total := decimal.Zero
		for _, it := range c.cart {
			if it.UserID == varID(r) {
				total = total.Add(it.TotalPrice)
			}
		}
		reply(w, http.StatusOK, map[string]interface{}{"total": total})
	}).Methods("GET")
	sub.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.nextID++
		it := models.CartItem{ID: c.nextID, Quantity: 1}
		reply(w, http.StatusOK, it)
	}).Methods("POST")
	sub.HandleFunc("/cart/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		it := c.cart[varID(r)]
		q, _ := c.bodies[r.Method+" "+r.URL.Path]["quantity"].(float64)
		it.Quantity = int(q)
		c.cart[it.ID] = it
		reply(w, http.StatusOK, it)
	}).Methods("PUT")
	sub.HandleFunc("/cart/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.cart, varID(r))
		w.WriteHeader(http.StatusNoContent)
	}).Methods("DELETE")
	sub.HandleFunc("/cart/user/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		for id, it := range c.cart {
			if it.UserID == varID(r) {
				delete(c.cart, id)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods("DELETE")
	sub.HandleFunc("/cart/user/{id:[0-9]+}/checkout", func(w http.ResponseWriter, _ *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		reply(w, http.StatusOK, c.checkout)
	}).Methods("POST")

	sub.HandleFunc("/orders/user/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := []models.Order{}
		for id := int64(1); id <= c.nextID; id++ {
			if o, ok := c.orders[id]; ok && o.UserID == varID(r) {
				out = append(out, o)
			}
		}
		reply(w, http.StatusOK, out)
	}).Methods("GET")
	sub.HandleFunc("/orders/{id:[0-9]+}/status", func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		o := c.orders[varID(r)]
		st, _ := c.bodies[r.Method+" "+r.URL.Path]["status"].(string)
		o.Status = models.OrderStatus(st)
		c.orders[o.ID] = o
		reply(w, http.StatusOK, o)
	}).Methods("PUT")
	return r
}

type harness struct {
	cat    *catalog
	store  *store.MemoryStore
	srv    *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cat := newCatalog()
	backend := httptest.NewServer(cat.router())
	t.Cleanup(backend.Close)

	st := store.NewMemoryStore()
	h := newTestServer(t, backend, st)
	return &harness{cat: cat, store: st, srv: h, client: browser(t, h)}
}

func newTestServer(t *testing.T, backend *httptest.Server, st store.Store) *httptest.Server {
	t.Helper()
	client := api.NewClient(backend.URL+"/api", api.WithHTTPClient(backend.Client()))
	money := DefaultMoneyFormatter()
	svc := service.NewService(client, st, service.WithMoneyFormat(money.Format))

	r := mux.NewRouter()
	NewHandler(svc, WithMoneyFormatter(money), WithSessionCookie("sid", time.Hour, false)).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// browser returns a client that keeps cookies and follows redirects.
func browser(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := srv.Client()
	c.Jar = jar
	return c
}

func (hs *harness) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := hs.client.Get(hs.srv.URL + path)
	require.NoError(t, err)
	return readBody(t, resp)
}

func (hs *harness) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := hs.client.PostForm(hs.srv.URL+path, form)
	require.NoError(t, err)
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func (hs *harness) selectAna(t *testing.T) {
	t.Helper()
	code, _ := hs.post(t, "/users/1/select", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestHealth(t *testing.T) {
	hs := newHarness(t)
	code, body := hs.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestSelectionSurvivesRestart(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.get(t, "/")
	assert.Contains(t, body, "No user selected")

	hs.selectAna(t)
	_, body = hs.get(t, "/")
	assert.Contains(t, body, "User: Ana")

	// a fresh server over the same store restores the selection from the cookie
	backend := httptest.NewServer(hs.cat.router())
	defer backend.Close()
	restarted := newTestServer(t, backend, hs.store)
	u, _ := url.Parse(hs.srv.URL)
	r, _ := url.Parse(restarted.URL)
	hs.client.Jar.SetCookies(r, hs.client.Jar.Cookies(u))
	resp, err := hs.client.Get(restarted.URL + "/")
	require.NoError(t, err)
	_, body = readBody(t, resp)
	assert.Contains(t, body, "User: Ana")
}

func TestSelectStoresBackendRecord(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.post(t, "/users/2/select", url.Values{"name": {"Mallory"}, "email": {"m@example.com"}})
	assert.True(t, hs.cat.called("GET /api/users/2"))
	assert.Contains(t, body, "User: Bruno")
	assert.NotContains(t, body, "Mallory")

	_, body = hs.post(t, "/users/999/select", nil)
	assert.Contains(t, body, "User not found")
	assert.Contains(t, body, "User: Bruno")
}

func TestDeselect(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/users/deselect", nil)
	assert.Contains(t, body, "No user selected")
}

func TestCartBadgeSumsQuantities(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 2})
	hs.cat.addCartItem(models.CartItem{ID: 11, UserID: 1, ProductID: 2, Quantity: 3})

	_, body := hs.get(t, "/")
	assert.NotContains(t, body, `id="cart-count"`)

	hs.selectAna(t)
	_, body = hs.get(t, "/")
	assert.Contains(t, body, `id="cart-count">5</span>`)
}

func TestAddToCartWithoutUser(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.post(t, "/cart/add", url.Values{"product_id": {"1"}, "product_name": {"Laptop"}, "back": {"/"}})
	assert.Contains(t, body, "Select a user first!")
	assert.False(t, hs.cat.called("POST /api/cart"))

	// the alert is shown once
	_, body = hs.get(t, "/")
	assert.NotContains(t, body, "Select a user first!")
}

func TestAddToCart(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/add", url.Values{"product_id": {"1"}, "product_name": {"Laptop"}, "back": {"/?q=lap"}})
	assert.Contains(t, body, "Laptop added to cart!")
	assert.Equal(t, map[string]interface{}{"userId": float64(1), "productId": float64(1), "quantity": float64(1)},
		hs.cat.body("POST /api/cart"))
	assert.True(t, hs.cat.called("GET /api/products/search"), "redirects back to the search")
}

func TestFormActionsSkipBadgeRead(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 2})
	hs.selectAna(t)

	noFollow := *hs.client
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	before := hs.cat.count("GET /api/cart/user/1")
	for path, form := range map[string]url.Values{
		"/cart/add":               {"product_id": {"1"}, "product_name": {"Laptop"}},
		"/cart/checkout":          {"item_count": {"1"}},
		"/cart/clear":             {"confirm": {"yes"}},
		"/users/2/delete":         {"confirm": {"yes"}},
		"/cart/items/10/quantity": {"quantity": {"3"}},
	} {
		resp, err := noFollow.PostForm(hs.srv.URL+path, form)
		require.NoError(t, err)
		code, _ := readBody(t, resp)
		assert.Equal(t, http.StatusSeeOther, code, path)
	}
	assert.Equal(t, before, hs.cat.count("GET /api/cart/user/1"))
}

func TestAddToCartIgnoresForeignRedirect(t *testing.T) {
	assert.Equal(t, "/", localPath("//evil.example", "/"))
	assert.Equal(t, "/", localPath("https://evil.example", "/"))
	assert.Equal(t, "/?q=x", localPath("/?q=x", "/"))
}

func TestProductsSearchAndFilter(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.get(t, "/?q=lap")
	assert.Contains(t, body, "Laptop")
	assert.NotContains(t, body, "Mouse")

	_, body = hs.get(t, "/?filter=1&min=10&max=50")
	assert.Contains(t, body, "Mouse")
	assert.NotContains(t, body, "Laptop")

	_, body = hs.get(t, "/?filter=1&min=10&max=")
	assert.Contains(t, body, "Enter both minimum and maximum price")
	assert.Contains(t, body, "Laptop")
	assert.Contains(t, body, "Mouse")
}

func TestProductsShowFormattedPrice(t *testing.T) {
	hs := newHarness(t)
	_, body := hs.get(t, "/")
	assert.Contains(t, body, "R$ 1.234,50")
	assert.Contains(t, body, "R$ 20,00")
}

func TestCartPageWithoutUser(t *testing.T) {
	hs := newHarness(t)
	_, body := hs.get(t, "/cart")
	assert.Contains(t, body, "Select a user to see the cart")
	assert.False(t, hs.cat.called("GET /api/cart/user/1"))
}

func TestCartPage(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{
		ID: 10, UserID: 1, ProductID: 1, ProductName: "Laptop", Quantity: 2,
		UnitPrice: decimal.RequireFromString("1234.5"), TotalPrice: decimal.RequireFromString("2469"),
	})
	hs.selectAna(t)

	_, body := hs.get(t, "/cart")
	assert.Contains(t, body, "Laptop")
	assert.Contains(t, body, `<span id="cart-total">R$ 2.469,00</span>`)
	assert.Contains(t, body, `name="item_count" value="1"`)
}

func TestUpdateQuantity(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 2})
	hs.selectAna(t)

	hs.post(t, "/cart/items/10/quantity", url.Values{"quantity": {"3"}})
	assert.Equal(t, map[string]interface{}{"quantity": float64(3)}, hs.cat.body("PUT /api/cart/10"))

	hs.post(t, "/cart/items/10/quantity", url.Values{"quantity": {"abc"}})
	assert.Equal(t, map[string]interface{}{"quantity": float64(1)}, hs.cat.body("PUT /api/cart/10"))

	// typing 0 in the box keeps one unit
	hs.post(t, "/cart/items/10/quantity", url.Values{"quantity": {"0"}, "typed": {"1"}})
	assert.Equal(t, map[string]interface{}{"quantity": float64(1)}, hs.cat.body("PUT /api/cart/10"))
	assert.False(t, hs.cat.called("DELETE /api/cart/10"))
}

func TestQuantityBelowOneRemovesItem(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 1})
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/items/10/quantity", url.Values{"quantity": {"0"}})
	assert.True(t, hs.cat.called("DELETE /api/cart/10"))
	assert.False(t, hs.cat.called("PUT /api/cart/10"))
	assert.Contains(t, body, "Cart is empty.")
}

func TestClearCartAsksFirst(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addCartItem(models.CartItem{ID: 10, UserID: 1, ProductID: 1, Quantity: 1})
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/clear", nil)
	assert.Contains(t, body, `id="confirm-clear"`)
	assert.False(t, hs.cat.called("DELETE /api/cart/user/1"))

	_, body = hs.post(t, "/cart/clear", url.Values{"confirm": {"yes"}})
	assert.True(t, hs.cat.called("DELETE /api/cart/user/1"))
	assert.Contains(t, body, "Cart is empty.")
}

func TestCheckoutEmptyCartMakesNoCall(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/checkout", url.Values{"item_count": {"0"}})
	assert.Contains(t, body, "Cart is empty!")
	assert.False(t, hs.cat.called("POST /api/cart/user/1/checkout"))
}

func TestCheckout(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/checkout", url.Values{"item_count": {"1"}})
	assert.Contains(t, body, "Order created successfully! Order #7. Total: R$ 1.234,50")
	assert.Contains(t, body, "alert-success")
}

func TestCheckoutRejectedByBackend(t *testing.T) {
	hs := newHarness(t)
	hs.cat.checkout = models.CheckoutResult{Success: false, Message: "Insufficient stock"}
	hs.selectAna(t)

	_, body := hs.post(t, "/cart/checkout", url.Values{"item_count": {"1"}})
	assert.Contains(t, body, "Error: Insufficient stock")
	assert.Contains(t, body, "alert-danger")
}

func TestUsersModal(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.get(t, "/users")
	assert.NotContains(t, body, `id="user-form"`)

	_, body = hs.get(t, "/users?new=1")
	assert.Contains(t, body, `id="user-form"`)
	assert.Contains(t, body, `action="/users"`)

	_, body = hs.get(t, "/users?edit=2")
	assert.Contains(t, body, `action="/users/2"`)
	assert.Contains(t, body, `value="bruno@example.com"`)
}

func TestCreateUser(t *testing.T) {
	hs := newHarness(t)

	_, body := hs.post(t, "/users", url.Values{"name": {" Carla "}, "email": {"carla@example.com"}})
	assert.Contains(t, body, "User created successfully!")
	assert.Contains(t, body, "Carla")
	assert.Equal(t, map[string]interface{}{"name": "Carla", "email": "carla@example.com"}, hs.cat.body("POST /api/users"))
}

func TestSaveUserKeepsModalOnFailure(t *testing.T) {
	hs := newHarness(t)

	code, body := hs.post(t, "/users", url.Values{"name": {""}, "email": {"x@example.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Fill in all fields")
	assert.Contains(t, body, `value="x@example.com"`)
	assert.False(t, hs.cat.called("POST /api/users"))

	code, body = hs.post(t, "/users/2", url.Values{"name": {"Bruno"}, "email": {"ana@example.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Email is already in use")
	assert.Contains(t, body, `action="/users/2"`)
}

func TestDeleteSelectedUserClearsSelection(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/users/1/delete", nil)
	assert.Contains(t, body, `id="confirm-delete"`)
	assert.False(t, hs.cat.called("DELETE /api/users/1"))

	_, body = hs.post(t, "/users/1/delete", url.Values{"confirm": {"yes"}})
	assert.True(t, hs.cat.called("DELETE /api/users/1"))
	assert.Contains(t, body, "User deleted successfully!")
	assert.Contains(t, body, "No user selected")
}

func TestDeleteOtherUserKeepsSelection(t *testing.T) {
	hs := newHarness(t)
	hs.selectAna(t)

	_, body := hs.post(t, "/users/2/delete", url.Values{"confirm": {"yes"}})
	assert.Contains(t, body, "User: Ana")
}

var statusButton = regexp.MustCompile(`name="status" value="([A-Z]+)"`)

func statusButtons(body string) []string {
	out := []string{}
	for _, m := range statusButton.FindAllStringSubmatch(body, -1) {
		out = append(out, m[1])
	}
	return out
}

func TestOrderStatusButtons(t *testing.T) {
	tests := []struct {
		status models.OrderStatus
		want   []string
	}{
		{models.StatusPending, []string{"CONFIRMED", "CANCELLED"}},
		{models.StatusConfirmed, []string{"SHIPPED"}},
		{models.StatusShipped, []string{"DELIVERED"}},
		{models.StatusDelivered, []string{}},
		{models.StatusCancelled, []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			hs := newHarness(t)
			hs.cat.addOrder(models.Order{ID: 5, UserID: 1, Status: tt.status, TotalAmount: decimal.RequireFromString("10")})
			hs.selectAna(t)

			_, body := hs.get(t, "/orders")
			if diff := cmp.Diff(tt.want, statusButtons(body)); diff != "" {
				t.Errorf("status buttons mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderItemsAlwaysShown(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addOrder(models.Order{
		ID: 5, UserID: 1, UserName: "Ana", Status: models.StatusPending,
		TotalAmount: decimal.RequireFromString("150"),
		Items: []models.OrderItem{{
			ProductID: 3, ProductName: "Keyboard", Quantity: 2,
			UnitPrice: decimal.RequireFromString("75"), TotalPrice: decimal.RequireFromString("150"),
		}},
	})
	hs.selectAna(t)

	_, body := hs.get(t, "/orders")
	assert.Contains(t, body, "Keyboard")
	assert.Contains(t, body, "R$ 75,00 &times; 2 = R$ 150,00")
	assert.NotContains(t, body, "order-details")

	_, body = hs.get(t, "/orders?open=5")
	assert.Contains(t, body, "order-details")
	assert.Contains(t, body, `<dd class="col-sm-9">Ana</dd>`)
}

func TestUpdateOrderStatus(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addOrder(models.Order{ID: 5, UserID: 1, Status: models.StatusPending})
	hs.selectAna(t)

	_, body := hs.post(t, "/orders/5/status", url.Values{"status": {"CONFIRMED"}})
	assert.Contains(t, body, "Status updated successfully!")
	assert.Contains(t, body, "Confirmed")
	if diff := cmp.Diff([]string{"SHIPPED"}, statusButtons(body)); diff != "" {
		t.Errorf("status buttons mismatch (-want +got):\n%s", diff)
	}

	_, body = hs.post(t, "/orders/5/status", url.Values{"status": {"LOST"}})
	assert.Contains(t, body, "Unknown order status")
}

func TestOrdersPageShowsDate(t *testing.T) {
	hs := newHarness(t)
	hs.cat.addOrder(models.Order{
		ID: 5, UserID: 1, Status: models.StatusPending,
		CreatedAt: models.Timestamp{Time: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)},
	})
	hs.selectAna(t)

	_, body := hs.get(t, "/orders")
	assert.Contains(t, body, "09/03/2024 14:05:00")
	assert.Contains(t, body, `class="badge bg-warning"`)
}

func TestMoneyFormatter(t *testing.T) {
	br := DefaultMoneyFormatter()
	us := MoneyFormatter{Symbol: "$", DecimalSeparator: ".", ThousandSeparator: ","}
	tests := []struct {
		f    MoneyFormatter
		in   string
		want string
	}{
		{br, "0", "R$ 0,00"},
		{br, "5.5", "R$ 5,50"},
		{br, "999.999", "R$ 1.000,00"},
		{br, "1234.5", "R$ 1.234,50"},
		{br, "1234567.891", "R$ 1.234.567,89"},
		{br, "-42", "-R$ 42,00"},
		{us, "1234.5", "$ 1,234.50"},
		{MoneyFormatter{}, "12", "12.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.Format(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	h := NewHandler(nil)
	rec := httptest.NewRecorder()
	h.setFlash(rec, &Flash{Level: levelWarning, Message: "Cart is empty! 100%"})

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	f := h.takeFlash(out, req)
	require.NotNil(t, f)
	assert.Equal(t, Flash{Level: levelWarning, Message: "Cart is empty! 100%"}, *f)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestSessionKeyRejectsGarbage(t *testing.T) {
	h := NewHandler(nil)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "storefront_session", Value: "not-a-uuid"})
	assert.Equal(t, "", h.sessionKey(req))

	rec := httptest.NewRecorder()
	key := h.ensureSessionKey(rec, req)
	assert.NotEmpty(t, key)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, key, rec.Result().Cookies()[0].Value)
}
