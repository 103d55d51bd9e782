package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicdesk/receptionist/internal/auth"
	"github.com/clinicdesk/receptionist/internal/http/handlers"
	httpmiddleware "github.com/clinicdesk/receptionist/internal/http/middleware"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger       *logging.Logger
	Auth         *handlers.AuthHandler
	Appointments *handlers.AppointmentsHandler
	Visitors     *handlers.VisitorsHandler
	Analytics    *handlers.AnalyticsHandler

	TokenIssuer     *auth.TokenIssuer
	StaffAuthSecret string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec per IP on the credential endpoints; zero disables.
	AuthRateLimit float64
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Auth != nil {
			public.Route("/auth", func(r chi.Router) {
				if cfg.AuthRateLimit > 0 {
					r.Use(httpmiddleware.RateLimit(cfg.AuthRateLimit, int(cfg.AuthRateLimit*2)))
				}
				r.Post("/register", cfg.Auth.Register)
				r.Post("/login", cfg.Auth.Login)
			})
		}
	})

	// Patient endpoints behind bearer auth.
	if cfg.Appointments != nil && cfg.TokenIssuer != nil {
		r.Group(func(private chi.Router) {
			private.Use(httpmiddleware.RequireUser(cfg.TokenIssuer))
			private.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.Appointments.Book)
				r.Post("/cancel", cfg.Appointments.Cancel)
				r.Get("/", cfg.Appointments.History)
			})
		})
		// Availability search stays public so the front desk can answer
		// walk-in questions without a patient token.
		r.Get("/appointments/next-available", cfg.Appointments.NextAvailable)
	}

	// Front-desk endpoints behind the staff token.
	r.Group(func(staff chi.Router) {
		staff.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))
		if cfg.Visitors != nil {
			staff.Post("/visitors", cfg.Visitors.CheckIn)
			staff.Get("/visitors", cfg.Visitors.List)
		}
		if cfg.Analytics != nil {
			staff.Get("/analytics/summary", cfg.Analytics.Summary)
		}
	})

	return r
}
