package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	models "storefront/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"products", "cart", "users", "orders"}

// view is handed to every page template. Page holds the page's own data.
type view struct {
	Active    string
	User      *models.User
	CartCount int
	Flash     *Flash
	Page      interface{}
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return h.money.Format(d) },
		"date": func(ts models.Timestamp) string {
			if ts.IsZero() {
				return ""
			}
			return ts.Format(h.dateLayout)
		},
		"inc": func(n int) int { return n + 1 },
		"dec": func(n int) int { return n - 1 },
	}
}

// parsePages builds one template set per page, each layered on the shared layout.
func parsePages(fm template.FuncMap) map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.New("layout.html").Funcs(fm).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return pages
}

func (h *Handler) render(w http.ResponseWriter, code int, name string, v view) {
	v.Active = name
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", v); err != nil {
		h.log.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// baseView assembles the shell state plus any pending flash.
func (h *Handler) baseView(w http.ResponseWriter, r *http.Request) (view, shell) {
	sh := h.shell(r)
	return view{User: sh.User, CartCount: sh.Count, Flash: h.takeFlash(w, r)}, sh
}
