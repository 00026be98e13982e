package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	models "storefront/model"
	"storefront/service"
)

// Handler is the HTTP layer that talks to service.ServiceInterface
type Handler struct {
	svc   service.ServiceInterface
	log   *zap.Logger
	pages map[string]*template.Template

	cookieName   string
	cookieMaxAge time.Duration
	cookieSecure bool

	money      MoneyFormatter
	dateLayout string
}

type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSessionCookie configures the cookie that carries the session key.
func WithSessionCookie(name string, maxAge time.Duration, secure bool) Option {
	return func(h *Handler) {
		if name != "" {
			h.cookieName = name
		}
		if maxAge > 0 {
			h.cookieMaxAge = maxAge
		}
		h.cookieSecure = secure
	}
}

func WithMoneyFormatter(m MoneyFormatter) Option {
	return func(h *Handler) { h.money = m }
}

func WithDateLayout(layout string) Option {
	return func(h *Handler) {
		if layout != "" {
			h.dateLayout = layout
		}
	}
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, opts ...Option) *Handler {
	h := &Handler{
		svc:          s,
		log:          zap.NewNop(),
		cookieName:   "storefront_session",
		cookieMaxAge: 30 * 24 * time.Hour,
		money:        DefaultMoneyFormatter(),
		dateLayout:   "02/01/2006 15:04:05",
	}
	for _, o := range opts {
		o(h)
	}
	h.pages = parsePages(h.funcs())
	return h
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.logRequests)

	// Products
	r.HandleFunc("/", h.ProductsPage).Methods("GET")

	// Cart
	r.HandleFunc("/cart", h.CartPage).Methods("GET")
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/items/{id:[0-9]+}/quantity", h.UpdateQuantity).Methods("POST")
	r.HandleFunc("/cart/items/{id:[0-9]+}/remove", h.RemoveItem).Methods("POST")
	r.HandleFunc("/cart/clear", h.ClearCart).Methods("POST")
	r.HandleFunc("/cart/checkout", h.Checkout).Methods("POST")

	// Users
	r.HandleFunc("/users", h.UsersPage).Methods("GET")
	r.HandleFunc("/users", h.SaveUser).Methods("POST")
	r.HandleFunc("/users/deselect", h.DeselectUser).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}", h.SaveUser).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/delete", h.DeleteUser).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/select", h.SelectUser).Methods("POST")

	// Orders
	r.HandleFunc("/orders", h.OrdersPage).Methods("GET")
	r.HandleFunc("/orders/{id:[0-9]+}/status", h.UpdateOrderStatus).Methods("POST")

	r.HandleFunc("/healthz", h.Health).Methods("GET")
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// shell is the state every page shares: who is selected and the cart badge.
type shell struct {
	Key   string
	User  *models.User
	Count int
}

func (h *Handler) shell(r *http.Request) shell {
	sh := h.currentUser(r)
	sh.Count = h.svc.CartCount(r.Context(), sh.User)
	return sh
}

// currentUser restores the selection without reading the cart. Form actions
// redirect, so they have no badge to fill.
func (h *Handler) currentUser(r *http.Request) shell {
	sh := shell{Key: h.sessionKey(r)}
	u, err := h.svc.CurrentUser(r.Context(), sh.Key)
	if err != nil {
		h.log.Error("restore selected user", zap.Error(err))
	}
	sh.User = u
	return sh
}

// failureFlash logs err and turns it into the alert shown to the visitor.
func (h *Handler) failureFlash(r *http.Request, err error) *Flash {
	msg := "Unexpected error"
	var f *service.Failure
	if errors.As(err, &f) {
		msg = f.Message
	}
	if f != nil && f.Err == nil {
		h.log.Info("request rejected", zap.String("path", r.URL.Path), zap.String("reason", msg))
	} else {
		h.log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
	return &Flash{Level: levelDanger, Message: msg}
}

// fail redirects to target carrying err as a flash.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, target string, err error) {
	h.setFlash(w, h.failureFlash(r, err))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) succeed(w http.ResponseWriter, r *http.Request, target, msg string) {
	h.setFlash(w, &Flash{Level: levelSuccess, Message: msg})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func formID(r *http.Request, field string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(field)), 10, 64)
	return id, err == nil && id > 0
}

// localPath accepts only same-site paths as redirect targets.
func localPath(p, fallback string) string {
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\") {
		return p
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
