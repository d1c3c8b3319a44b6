package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sweetshop/internal/httpx"
	"sweetshop/internal/observability"
)

type contextKey string

const identityContextKey contextKey = "sweetshop_identity"

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok && id != nil
}

// TokenResolver turns a bearer token into an identity.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*Identity, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware installs the identity of a valid bearer token into the request
// context. It never rejects a request: without a token, or with one that does
// not validate, the request continues anonymously and the authorization gate
// decides. An identity already present in the context is left untouched.
func Middleware(resolver TokenResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := BearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			id, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				observability.TokenChecksTotal.WithLabelValues("rejected").Inc()
				logger.Debug("bearer token rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}
			observability.TokenChecksTotal.WithLabelValues("authenticated").Inc()
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Authorize returns nil if id holds one of roles. With no roles any
// authenticated identity passes. Roles match exactly.
func Authorize(id *Identity, roles ...Role) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if id.Role == r {
			return nil
		}
	}
	return ErrInsufficientRole
}

// RequireRole runs next only for identities holding one of roles.
func RequireRole(next http.HandlerFunc, roles ...Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		if err := Authorize(id, roles...); err != nil {
			deny(w, err)
			return
		}
		next(w, r)
	}
}

// RequireAuthenticated runs next for any identity.
func RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return RequireRole(next)
}

func deny(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInsufficientRole) {
		observability.AccessDeniedTotal.WithLabelValues("insufficient_role").Inc()
		httpx.WriteError(w, http.StatusForbidden, err.Error())
		return
	}
	observability.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
	w.Header().Set("WWW-Authenticate", "Bearer")
	httpx.WriteError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
}
