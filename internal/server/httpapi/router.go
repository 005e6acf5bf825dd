package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/server/limiter"
)

// Credential endpoints get a tight per-IP budget; everything else rides
// on the standard middleware stack.
const (
	authRate  = 0.5
	authBurst = 5
)

// Router assembles the HTTP routing table: CORS, request logging,
// recovery, rate limiting on the credential endpoints, and the /user
// routes the client gateway talks to.
func Router(h *Handler, allowedOrigins []string) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(authRate), authBurst)
	authLimiter.OnReject = func(w http.ResponseWriter, r *http.Request) {
		respondReason(w, http.StatusTooManyRequests, envelope.ReasonUnknown)
	}

	corsOrigins := allowedOrigins
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r := chi.NewRouter()

	r.Use(c.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/user", func(user chi.Router) {
		user.With(authLimiter.Middleware).Post("/login", h.Login)
		user.With(authLimiter.Middleware).Post("/signUp", h.SignUp)

		user.Group(func(authed chi.Router) {
			authed.Use(h.authenticated)
			authed.Get("/account", h.GetAccount)
			authed.Put("/", h.Update)
		})
	})

	return r
}
