package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// EditTokenCookie carries the edit token between the edit form and its
// submission.
const EditTokenCookie = "Auth-Key"

// IssueEditToken sets the edit token cookie on the response. An empty token
// disables the check and the middleware passes requests through.
func IssueEditToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{
				Name:     EditTokenCookie,
				Value:    token,
				Path:     "/persons",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditToken rejects requests whose edit token cookie is missing or
// wrong with 401. An empty token disables the check.
func RequireEditToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(EditTokenCookie)
			if err != nil || subtle.ConstantTimeCompare([]byte(c.Value), []byte(token)) != 1 {
				slog.Warn("edit token rejected",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"cookie_present", err == nil,
				)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
