package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	models "storefront/model"
)

// userForm is the create/edit modal. EditingID is 0 when creating.
type userForm struct {
	EditingID int64
	Name      string
	Email     string
}

type usersPage struct {
	Users         []models.User
	Form          *userForm
	ConfirmDelete *models.User
}

// UsersPage handles GET /users. ?new=1 opens an empty modal, ?edit={id}
// opens it filled with that user and ?delete={id} asks for confirmation.
func (h *Handler) UsersPage(w http.ResponseWriter, r *http.Request) {
	v, _ := h.baseView(w, r)
	var p usersPage
	users, err := h.svc.LoadUsers(r.Context())
	if err != nil {
		v.Flash = h.failureFlash(r, err)
	}
	p.Users = users

	q := r.URL.Query()
	if q.Get("new") != "" {
		p.Form = &userForm{}
	}
	if id, err := strconv.ParseInt(q.Get("edit"), 10, 64); err == nil {
		if u := findUser(users, id); u != nil {
			p.Form = &userForm{EditingID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	if id, err := strconv.ParseInt(q.Get("delete"), 10, 64); err == nil {
		p.ConfirmDelete = findUser(users, id)
	}
	v.Page = p
	h.render(w, http.StatusOK, "users", v)
}

// SaveUser handles POST /users and POST /users/{id}. On failure the modal is
// shown again with what was typed.
func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var editingID int64
	if _, has := mux.Vars(r)["id"]; has {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		editingID = id
	}
	name, email := r.FormValue("name"), r.FormValue("email")

	msg, err := h.svc.SaveUser(r.Context(), editingID, name, email)
	if err == nil {
		h.succeed(w, r, "/users", msg)
		return
	}

	v, _ := h.baseView(w, r)
	v.Flash = h.failureFlash(r, err)
	users, lerr := h.svc.LoadUsers(r.Context())
	if lerr != nil {
		h.log.Error("reload users", zap.Error(lerr))
	}
	v.Page = usersPage{
		Users: users,
		Form:  &userForm{EditingID: editingID, Name: name, Email: email},
	}
	h.render(w, http.StatusUnprocessableEntity, "users", v)
}

// DeleteUser handles POST /users/{id}/delete. Without confirm=yes it asks first.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, "/users?delete="+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}
	sh := h.currentUser(r)
	msg, err := h.svc.DeleteUser(r.Context(), sh.Key, sh.User, id)
	if err != nil {
		h.fail(w, r, "/users", err)
		return
	}
	h.succeed(w, r, "/users", msg)
}

// SelectUser handles POST /users/{id}/select. The stored record is the
// backend's, not anything the form sends.
func (h *Handler) SelectUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	key := h.ensureSessionKey(w, r)
	if err := h.svc.SelectUserByID(r.Context(), key, id); err != nil {
		h.fail(w, r, "/users", err)
		return
	}
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// DeselectUser handles POST /users/deselect
func (h *Handler) DeselectUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeselectUser(r.Context(), h.sessionKey(r)); err != nil {
		h.fail(w, r, "/users", err)
		return
	}
	h.expireSession(w)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func findUser(users []models.User, id int64) *models.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}
