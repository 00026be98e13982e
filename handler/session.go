package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	levelSuccess = "success"
	levelDanger  = "danger"
	levelWarning = "warning"
)

// Flash is a one-shot alert carried across a redirect.
type Flash struct {
	Level   string
	Message string
}

func (h *Handler) flashCookie() string { return h.cookieName + "_flash" }

func (h *Handler) sessionKey(r *http.Request) string {
	c, err := r.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureSessionKey returns the visitor's session key, minting one and
// setting the cookie if there is none yet.
func (h *Handler) ensureSessionKey(w http.ResponseWriter, r *http.Request) string {
	if k := h.sessionKey(r); k != "" {
		return k
	}
	k := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    k,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
	})
	return k
}

func (h *Handler) expireSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (h *Handler) setFlash(w http.ResponseWriter, f *Flash) {
	if f == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.flashCookie(),
		Value:    url.QueryEscape(f.Level + "|" + f.Message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending flash, if any.
func (h *Handler) takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(h.flashCookie())
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: h.flashCookie(), Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, msg, ok := strings.Cut(raw, "|")
	if !ok || msg == "" {
		return nil
	}
	switch level {
	case levelSuccess, levelDanger, levelWarning:
	default:
		level = levelDanger
	}
	return &Flash{Level: level, Message: msg}
}
