package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

const (
	// SessionCookieName identifies anonymous visitors across requests.
	SessionCookieName = "sentinel_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

// Session ensures every request carries a sentinel_session cookie and seeds
// its value into the context. The overdue prompt guard and click tracking key
// off this identifier.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(sessionCookieTTL),
					MaxAge:   int(sessionCookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
