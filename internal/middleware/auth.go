package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in the JWT role claim. Drivers see only their own data;
// admins operate the dispatch dashboard.
const (
	RoleDriver = "fahrer"
	RoleAdmin  = "admin"
)

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// Claims is the token payload: standard registered claims plus the role.
// The subject is the user's UUID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// IdentityFromContext returns the authenticated identity stored by
// NewAuthenticator. ok is false on routes outside the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Exposed for
// handler tests, which bypass the token parsing.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// NewAuthenticator returns a middleware that validates the Authorization
// bearer token (HS256 only) and stores the caller's Identity in the request
// context. Requests without a valid token are rejected with 401.
func NewAuthenticator(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			identity, err := parseToken(raw, secret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole returns a middleware that rejects authenticated callers whose
// role does not match. Wire it after NewAuthenticator.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			if identity.Role != role {
				writeAuthError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func parseToken(raw string, secret []byte) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("subject is not a UUID: %w", err)
	}
	if claims.Role != RoleDriver && claims.Role != RoleAdmin {
		return Identity{}, errors.New("unknown role claim")
	}

	return Identity{UserID: userID, Role: claims.Role}, nil
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"code":%q,"message":%q}}`, code, message)
}
