package middleware

import (
	"context"
	"net/http"
	"strings"

	"inkpress/internal/common"
	"inkpress/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// Authenticator rejects requests without a valid bearer token. It expects
// jwtauth.Verifier to have run first (installed at the router root).
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}
		userRole, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		ctx = context.WithValue(ctx, UserRoleCtxKey, userRole)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromRequest resolves the caller's identity, or nil for anonymous
// requests. Works on public routes too: if the optional bearer token parsed
// by jwtauth.Verifier is valid, the actor is populated from its claims.
func ActorFromRequest(r *http.Request) *security.Actor {
	if id, ok := r.Context().Value(UserIDCtxKey).(string); ok {
		role, _ := r.Context().Value(UserRoleCtxKey).(string)
		return &security.Actor{ID: id, Role: role}
	}

	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return nil
	}
	id, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return nil
	}
	role, err := security.GetUserRoleFromClaims(claims)
	if err != nil {
		return nil
	}
	return &security.Actor{ID: id, Role: role}
}

// GetUserIDFromContext returns the authenticated user id set by Authenticator.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}
