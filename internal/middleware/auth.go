package middleware

import (
	"net/http"
	"strings"

	"github.com/mmynk/jobbook/internal/auth"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// DefaultPublicPaths are reachable without a session. Entries ending in "/"
// match as prefixes.
var DefaultPublicPaths = []string{LoginPath, "/logout", "/static/"}

// RequireSession redirects every request without a valid session cookie to
// the login page, except for the public paths.
func RequireSession(sessions *auth.SessionManager, public ...string) func(http.Handler) http.Handler {
	if len(public) == 0 {
		public = DefaultPublicPaths
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, public) || sessions.Authenticated(r) {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusFound)
		})
	}
}

func isPublic(path string, public []string) bool {
	for _, p := range public {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(path, p) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
