package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/objectives/internal/ctxkeys"
	"github.com/templui/objectives/internal/service"
)

// AuthMiddleware reads a JWT from the Authorization header or the auth
// cookie and adds user + profile to context if valid. Anonymous requests
// pass through; RequireAuth rejects them where needed.
func AuthMiddleware(authService *service.AuthService, userService *service.UserService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, method := requestToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			// A stale cookie is cleared; a bad bearer token is simply ignored
			reject := func() {
				if method == ctxkeys.AuthMethodCookie {
					authService.ClearJWTCookie(w)
				}
				next.ServeHTTP(w, r)
			}

			userID, err := authService.UserIDFromToken(token)
			if err != nil {
				reject()
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				reject()
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = nil

			profile, err := profileService.ByUserID(userID)
			if err != nil {
				reject()
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithProfile(ctx, profile)
			ctx = ctxkeys.WithAuthMethod(ctx, method)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestToken prefers a bearer token over the cookie.
func requestToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token), ctxkeys.AuthMethodBearer
	}

	cookie, err := r.Cookie(service.AuthCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, ctxkeys.AuthMethodCookie
	}

	return "", ""
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil || ctxkeys.Profile(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireEditor allows editors and admins. It implies RequireAuth.
func RequireEditor(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.Profile(r.Context()).CanEdit() {
			writeError(w, http.StatusForbidden, "editor role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows admins only. It implies RequireAuth.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.Profile(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
