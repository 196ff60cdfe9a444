package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/folio/internal/logger"
)

// RequireToken checks "Authorization: Bearer <token>" on admin routes.
// An empty token disables the check; the CIDR and host guards still apply.
func RequireToken(token string, log logger.Logger) func(http.Handler) http.Handler {
	if token == "" {
		log.Debug("RequireToken: no admin token configured, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}
	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), want) != 1 {
				log.Warn("admin request without valid token",
					logger.String("path", r.URL.Path),
					logger.String("remote_ip", r.RemoteAddr))
				w.Header().Set("WWW-Authenticate", `Bearer realm="folio"`)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
