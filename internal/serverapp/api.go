package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tech2hard/taskly/internal/auth"
	"github.com/tech2hard/taskly/internal/invite"
	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/session"
	"github.com/tech2hard/taskly/internal/share"
	"github.com/tech2hard/taskly/internal/suggest"
	"github.com/tech2hard/taskly/internal/todo"
)

// API serves the authenticated JSON endpoints. Every handler resolves the
// caller's session from the registry, so each user works against their own
// merged task list.
type API struct {
	sessions *session.Registry
	suggest  *suggest.Client
	logger   *log.Logger
}

func (a *API) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	s, err := a.sessions.Get(r.Context(), id)
	if err != nil {
		a.logger.Printf("serverapp: start session for %s: %v", id.UID, err)
		writeErr(w, http.StatusInternalServerError, "could not load tasks")
		return nil, false
	}
	return s, true
}

func (a *API) ListTodos(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not load tasks")
		return
	}

	q := r.URL.Query()
	status := session.StatusFilter(q.Get("status"))
	if status == "" {
		status = session.StatusAll
	}
	category := model.Category(q.Get("category"))
	if category == "" {
		category = session.CategoryAll
	}
	key := session.SortKey(q.Get("sort"))

	writeJSON(w, http.StatusOK, map[string]any{
		"todos": s.Filtered(status, category, key),
	})
}

func (a *API) CreateTodo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var in session.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	e, err := s.Add(r.Context(), in)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var p todo.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.Edit(r.Context(), mux.Vars(r)["id"], p); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := s.Toggle(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	sharedID := r.URL.Query().Get("sharedId")
	if err := s.Delete(r.Context(), mux.Vars(r)["id"], sharedID != "", sharedID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) ShareTodo(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Email      string           `json:"email"`
		Permission model.Permission `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeErr(w, http.StatusBadRequest, "email is required")
		return
	}
	inv, err := s.Share(r.Context(), mux.Vars(r)["id"], req.Email, req.Permission)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (a *API) ListInvitations(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	if err := s.RefreshInvitations(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, "could not load invitations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invitations": s.Invitations()})
}

func (a *API) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req struct {
		TodoID string `json:"todoId"`
		Accept bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.RespondInvitation(r.Context(), mux.Vars(r)["id"], req.TodoID, req.Accept); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// SharedUsers keeps the aggregator's fail-closed shape on the wire: callers
// who are not the original owner get an empty list and a 200, never an
// error that reveals whether the task exists.
func (a *API) SharedUsers(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	users := s.SharedUsers(r.Context(), mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]any{"sharedUsers": users})
}

func (a *API) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	var req struct {
		TodoID     string           `json:"todoId"`
		Email      string           `json:"email"`
		Permission model.Permission `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeErr(w, http.StatusBadRequest, "email is required")
		return
	}
	if !req.Permission.Valid() {
		writeErr(w, http.StatusBadRequest, "permission must be view or edit")
		return
	}
	if err := s.UpdatePermission(r.Context(), req.TodoID, req.Email, mux.Vars(r)["sharedId"], req.Permission); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) RevokeShared(w http.ResponseWriter, r *http.Request) {
	s, ok := a.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		writeErr(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := s.RevokeAccess(r.Context(), q.Get("todoId"), userID, mux.Vars(r)["sharedId"]); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) Suggest(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.session(w, r); !ok {
		return
	}
	var req struct {
		Text        string `json:"text"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeErr(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestion": a.suggest.Generate(r.Context(), req.Text, req.Description),
	})
}

func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, todo.ErrEmptyText),
		errors.Is(err, invite.ErrInvalidPermission):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, todo.ErrNotFound),
		errors.Is(err, invite.ErrTaskNotFound),
		errors.Is(err, invite.ErrRecipientNotFound),
		errors.Is(err, invite.ErrUserNotFound),
		errors.Is(err, invite.ErrNotFound),
		errors.Is(err, share.ErrNotFound),
		errors.Is(err, share.ErrUserNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, invite.ErrDuplicateInvite):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
