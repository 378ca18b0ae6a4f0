package middleware

import (
	"net/http"

	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/transport"
)

// RequireAuth gates every route behind the session. Unauthenticated
// requests are redirected to the login form.
func RequireAuth(sessions *transport.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessions.UserID(r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := internal.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
