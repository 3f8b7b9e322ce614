// Package server is the HTTP surface of the onboarding service: routing,
// auth middleware, request instrumentation, and the JSON error envelope.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"

	"kyc_onboarding_service/internal/config"
	"kyc_onboarding_service/internal/realtime"
	"kyc_onboarding_service/internal/service"
)

type Server struct {
	users       service.UserService
	admins      service.AdminService
	submissions service.SubmissionService
	pipeline    service.PipelineService
	hub         *realtime.Hub
	logger      *zap.Logger

	jwtSecret      []byte
	tokenTTL       time.Duration
	allowedOrigins []string
	production     bool

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New(
	cfg *config.Config,
	users service.UserService,
	admins service.AdminService,
	submissions service.SubmissionService,
	pipeline service.PipelineService,
	hub *realtime.Hub,
	reg prometheus.Registerer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		users:          users,
		admins:         admins,
		submissions:    submissions,
		pipeline:       pipeline,
		hub:            hub,
		logger:         logger,
		jwtSecret:      []byte(cfg.Auth.JWTSecret),
		tokenTTL:       cfg.Auth.TokenTTL,
		allowedOrigins: cfg.CORS.AllowedOrigins,
		production:     cfg.Server.Env == "production",
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
	}
	reg.MustRegister(s.requestsTotal, s.requestDuration)
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", s.instrument("users_register", s.handleUserRegister))
		r.Post("/login", s.instrument("users_login", s.handleUserLogin))
		r.Get("/loggedin", s.instrument("users_loggedin", s.handleLoggedIn))
		r.Get("/logout", s.instrument("users_logout", s.handleLogout))
		r.With(s.requireUser).Get("/getuser", s.instrument("users_getuser", s.handleGetUser))
	})

	r.Route("/api/admins", func(r chi.Router) {
		r.Post("/register", s.instrument("admins_register", s.handleAdminRegister))
		r.Post("/login", s.instrument("admins_login", s.handleAdminLogin))
		r.With(s.requireAdmin).Get("/submissions", s.instrument("admins_submissions", s.handleListSubmissions))
	})

	r.Route("/api/submissions", func(r chi.Router) {
		r.With(s.requireUser).Post("/verify", s.instrument("submissions_verify", s.handleVerify))
		r.With(s.requireUser).Post("/", s.instrument("submissions_create", s.handleCreateSubmission))
		r.With(s.requireUser).Get("/status", s.instrument("submissions_status", s.handleSubmissionStatus))
		r.With(s.requireAdmin).Get("/", s.instrument("submissions_list", s.handleListSubmissions))
		r.With(s.requireAdmin).Patch("/{id}", s.instrument("submissions_update", s.handleUpdateStatus))
	})

	r.Get("/ws", s.hub.ServeHTTP)
	r.Get("/health", s.instrument("health", s.handleHealth))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
