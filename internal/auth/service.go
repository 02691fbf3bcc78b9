package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/tech2hard/taskly/internal/model"
	"github.com/tech2hard/taskly/internal/user"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid id token")
)

// Identity is what the external auth provider asserts about a signed-in user.
type Identity struct {
	UID         string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// TokenVerifier checks a provider-issued ID token and returns the identity
// it asserts. Production uses Firebase; tests plug in fakes.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)
	return Identity{UID: tok.UID, Email: email, DisplayName: name}, nil
}

// Service gates every API route behind the external provider and keeps the
// store's user records in sync with sign-ins.
type Service struct {
	verifier TokenVerifier
	users    user.Repo
	logger   *log.Logger
}

func NewService(verifier TokenVerifier, users user.Repo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{verifier: verifier, users: users, logger: logger}
}

// Authenticate verifies the token and upserts the user's profile. This is
// step one of the session-start sequence; the rest is session.Start.
func (s *Service) Authenticate(ctx context.Context, idToken string) (Identity, error) {
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return Identity{}, err
	}
	if id.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	if err := s.users.Upsert(ctx, model.UserProfile{
		ID:          id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
	}); err != nil {
		// A failed profile write must not block sign-in; the next request
		// retries the upsert.
		s.logger.Printf("auth: upsert profile %s: %v", id.Email, err)
	}
	return id, nil
}

func (s *Service) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w)
			return
		}
		id, err := s.Authenticate(r.Context(), token)
		if err != nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentityContext(r.Context(), id)))
	})
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized"})
}
