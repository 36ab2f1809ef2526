package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"subscription-tracker/internal/infra/metrics"
	"subscription-tracker/internal/usecase"
)

type Server struct {
	subUC       usecase.SubscriptionUseCase
	analyticsUC usecase.AnalyticsUseCase
	apiKey      string
	auth        *AuthManager
	horizonDays int
	log         *zerolog.Logger
}

func NewServer(
	subUC usecase.SubscriptionUseCase,
	analyticsUC usecase.AnalyticsUseCase,
	apiKey string,
	auth *AuthManager,
	horizonDays int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		subUC:       subUC,
		analyticsUC: analyticsUC,
		apiKey:      apiKey,
		auth:        auth,
		horizonDays: horizonDays,
		log:         logger,
	}
}

// Routes builds the full router: open health/metrics endpoints, session
// endpoints, and the authenticated API surface.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/v1/session", s.sessionCreateHandler())
	r.Delete("/api/v1/session", s.sessionClearHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", subscriptionsListHandler(s.subUC))
			r.Post("/", subscriptionCreateHandler(s.subUC))
			r.Get("/upcoming", subscriptionsUpcomingHandler(s.subUC))
			r.Get("/{id}", subscriptionGetHandler(s.subUC))
			r.Put("/{id}", subscriptionUpdateHandler(s.subUC))
			r.Delete("/{id}", subscriptionDeleteHandler(s.subUC))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", summaryHandler(s.analyticsUC))
			r.Get("/timeline", timelineHandler(s.analyticsUC, s.horizonDays))
			r.Get("/insights", insightsHandler(s.analyticsUC))
		})
	})

	return r
}

// authMiddleware accepts either the static API key as a Bearer token or
// a session JWT minted by the session endpoint.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if hdr := r.Header.Get("Authorization"); hdr != "" {
			parts := strings.Split(hdr, " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" && parts[1] == s.apiKey {
				next.ServeHTTP(w, r)
				return
			}
		}

		if s.auth != nil {
			if _, err := s.auth.ParseFromRequest(r); err == nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

// sessionCreateHandler trades the API key for a session cookie, so a
// browser dashboard never holds the long-lived key.
func (s *Server) sessionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hdr := r.Header.Get("Authorization")
		parts := strings.Split(hdr, " ")
		if s.apiKey == "" || len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] != s.apiKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if s.auth == nil {
			http.Error(w, "Sessions are not configured", http.StatusNotImplemented)
			return
		}
		if _, err := s.auth.Mint(w); err != nil {
			s.log.Error().Err(err).Msg("session mint failed")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) sessionClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.auth != nil {
			s.auth.Clear(w)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument records per-route request counts and latency. The chi route
// pattern keeps the label cardinality bounded; raw paths would not.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveAPIRequest(route, strconv.Itoa(rec.status), time.Since(start))
	})
}
