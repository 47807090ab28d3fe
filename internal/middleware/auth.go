package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-auth-service/internal/model"
)

const bearerPrefix = "Bearer "

type tokenVerifier interface {
	SubjectOf(tokenString string) (string, error)
	IsValid(tokenString string, expectedSubject string) bool
}

type userLoader interface {
	UserByUsername(ctx context.Context, username string) (model.User, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	tokens tokenVerifier
	users  userLoader
}

func NewAuthMiddleware(tokens tokenVerifier, users userLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Authenticate runs once per request and attaches a Principal to the request
// context when a verifiable bearer token names a known user. Every failure
// mode degrades to an anonymous pass-through; rejecting anonymous requests is
// RequireAuth's job, not the gate's.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		// First writer wins within a request.
		if _, attached := PrincipalFromContext(r.Context()); attached {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := m.tokens.SubjectOf(tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.UserByUsername(r.Context(), subject)
		if err != nil || !m.tokens.IsValid(tokenString, user.Username) {
			next.ServeHTTP(w, r)
			return
		}

		principal := model.NewPrincipal(user)
		ctx := context.WithValue(r.Context(), principalContextKey, &principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that reached it without an attached identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeAuthError(w, "UNAUTHORIZED", "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) RequireRoles(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[string(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, "UNAUTHORIZED", "authentication required")
				return
			}

			allowed := false
			for _, authority := range principal.Authorities {
				if _, exists := roleSet[authority]; exists {
					allowed = true
					break
				}
			}
			if !allowed {
				writeAuthError(w, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func PrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(*model.Principal)
	return principal, ok
}

// bearerToken extracts the token from the Authorization header. The scheme
// prefix is matched case-sensitively and must be followed by a single space.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}

	return header[len(bearerPrefix):]
}

func writeAuthError(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "FORBIDDEN" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
