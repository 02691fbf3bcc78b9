// Package serverapp wires repositories, services, and HTTP routes into a
// single handler. With a Firestore client it serves production storage;
// without one it falls back to in-memory repositories, which is what the
// tests and local development run against.
package serverapp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gorilla/mux"

	"github.com/tech2hard/taskly/internal/auth"
	"github.com/tech2hard/taskly/internal/config"
	"github.com/tech2hard/taskly/internal/httpmw"
	"github.com/tech2hard/taskly/internal/invite"
	"github.com/tech2hard/taskly/internal/session"
	"github.com/tech2hard/taskly/internal/share"
	"github.com/tech2hard/taskly/internal/suggest"
	"github.com/tech2hard/taskly/internal/todo"
	"github.com/tech2hard/taskly/internal/user"
)

type Options struct {
	Config   *config.Config
	Logger   *log.Logger
	Verifier auth.TokenVerifier

	// Firestore selects the storage backend. Nil means in-memory.
	Firestore *firestore.Client
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("token verifier is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	var (
		users  user.Repo
		todos  todo.Repo
		invRep invite.Repo
		shares share.Repo
	)
	if opts.Firestore != nil {
		users = user.NewFirestoreRepo(opts.Firestore)
		todos = todo.NewFirestoreRepo(opts.Firestore)
		invRep = invite.NewFirestoreRepo(opts.Firestore)
		shares = share.NewFirestoreRepo(opts.Firestore)
	} else {
		users = user.NewMemoryRepo()
		todos = todo.NewMemoryRepo()
		invRep = invite.NewMemoryRepo()
		shares = share.NewMemoryRepo()
	}

	authService := auth.NewService(opts.Verifier, users, opts.Logger)
	inviteService := invite.NewService(todos, users, invRep, shares, opts.Config.Sharing.AllowDuplicateInvites, opts.Logger)
	shareManager := share.NewManager(todos, users, shares, opts.Logger)
	suggestClient := suggest.NewClient(
		opts.Config.Suggest.APIKey,
		opts.Config.Suggest.BaseURL,
		opts.Config.Suggest.Model,
		opts.Config.Suggest.MaxTokens,
		opts.Logger,
	)

	sessions := session.NewRegistry(func(id auth.Identity) *session.Session {
		return session.New(id, todos, shares, inviteService, shareManager, opts.Logger)
	})

	api := &API{
		sessions: sessions,
		suggest:  suggestClient,
		logger:   opts.Logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskly",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet)

	authHandler := auth.NewHandler(authService)
	r.HandleFunc("/api/auth/session", authHandler.Session).Methods(http.MethodPost)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.RequireAPI)

	apiRouter.HandleFunc("/todos", api.ListTodos).Methods(http.MethodGet)
	apiRouter.HandleFunc("/todos", api.CreateTodo).Methods(http.MethodPost)
	apiRouter.HandleFunc("/todos/{id}", api.UpdateTodo).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/todos/{id}", api.DeleteTodo).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/todos/{id}/toggle", api.ToggleTodo).Methods(http.MethodPost)
	apiRouter.HandleFunc("/todos/{id}/share", api.ShareTodo).Methods(http.MethodPost)
	apiRouter.HandleFunc("/todos/{id}/shared-users", api.SharedUsers).Methods(http.MethodGet)

	apiRouter.HandleFunc("/invitations", api.ListInvitations).Methods(http.MethodGet)
	apiRouter.HandleFunc("/invitations/{id}/respond", api.RespondInvitation).Methods(http.MethodPost)

	apiRouter.HandleFunc("/shared/{sharedId}/permission", api.UpdatePermission).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/shared/{sharedId}", api.RevokeShared).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/suggest", api.Suggest).Methods(http.MethodPost)

	return httpmw.Chain(
		r,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}
