package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/models"
	"github.com/weesnerdevelopment/authkit/internal/server/auth"
)

type ctxKey int

const identityKey ctxKey = 0

// identityFromContext returns the plain username placed there by the
// authenticated middleware.
func identityFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(identityKey).(string)
	return username, ok
}

// authenticated verifies the bearer token and stores the account
// username on the request context. Requests without a valid token get
// the no-user-found rejection so clients can fall back to re-login.
func (h *Handler) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
			return
		}

		claims, err := auth.GetClaimsFromToken(token, h.secret)
		if err != nil {
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
			return
		}

		username, err := models.Deobfuscate(claims.Username)
		if err != nil || username == "" {
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, username)))
	})
}

// requestLogger logs one structured line per request: method, path,
// status, bytes, and latency. 4xx logs at warn, 5xx at error.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetReqID(r.Context())
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := base.With().
				Str("component", "http").
				Str("request_id", requestID).
				Str("request_method", r.Method).
				Str("request_uri", r.RequestURI).
				Logger()

			r = r.WithContext(logger.WithContext(r.Context()))

			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			evt := logger.Info()
			if status >= 500 {
				evt = logger.Error()
			} else if status >= 400 {
				evt = logger.Warn()
			}

			evt.
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("request completed")
		})
	}
}
