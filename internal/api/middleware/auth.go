package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/auth"
	"github.com/planetcare/server/internal/domain/users"
)

type contextKeyAuth string

const identityKey contextKeyAuth = "identityClaims"

// RequireAuth validates the bearer token from the Authorization header
// and attaches the decoded identity claims to the request context.
// Every failure mode is a terminal 401; there is no retry path.
func RequireAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://planetcare.events/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				problem.Write(w, r, http.StatusUnauthorized, "https://planetcare.events/problems/unauthorized", "Missing authorization header", problem.ErrUnauthorized, env)
				return
			}

			token, err := auth.TokenFromHeader(authHeader)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://planetcare.events/problems/unauthorized", "Invalid authorization format", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://planetcare.events/problems/unauthorized", "Invalid token", err, env)
				return
			}

			ctx := contextWithIdentity(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin runs after RequireAuth and re-reads the user record for
// the claimed email on every invocation. Access is granted only when a
// stored record exists with role exactly "admin"; there is no caching
// and the token's own contents are never trusted for the role.
func RequireAdmin(userService *users.Service, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Identity(r)
			if claims == nil {
				problem.Write(w, r, http.StatusUnauthorized, "https://planetcare.events/problems/unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			isAdmin, err := userService.IsAdmin(r.Context(), claims.Email)
			if err != nil {
				problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, env)
				return
			}
			if !isAdmin {
				problem.Write(w, r, http.StatusForbidden, "https://planetcare.events/problems/forbidden", "Forbidden", problem.ErrForbidden, env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func contextWithIdentity(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

// Identity returns the claims attached by RequireAuth, or nil.
func Identity(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(identityKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
