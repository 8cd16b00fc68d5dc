package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/havenhouse/hms/internal/handler"
	customMiddleware "github.com/havenhouse/hms/internal/middleware"
	"github.com/havenhouse/hms/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Contact      *handler.ContactHandler
	Auth         *handler.AuthHandler
	Application  *handler.ApplicationHandler
	Resident     *handler.ResidentHandler
	Payment      *handler.PaymentHandler
	Incident     *handler.IncidentHandler
	Analytics    *handler.AnalyticsHandler
	Notification *handler.NotificationHandler
	Portal       *handler.PortalHandler
	Health       *handler.HealthHandler
}

func NewRouter(h Handlers, tokenSvc service.TokenService) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(customMiddleware.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Public intake. GET answers 405 via chi's method routing.
	r.Post("/contact", h.Contact.Submit)

	// Staff session
	r.Post("/staff/auth", h.Auth.Login)
	r.Delete("/staff/auth", h.Auth.Logout)

	// Resident portal
	r.Post("/portal/login", h.Portal.Login)
	r.Delete("/portal/login", h.Portal.Logout)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.ResidentAuth(tokenSvc))
		r.Get("/portal/me", h.Portal.Me)
	})

	// Staff dashboard API
	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.StaffAuth(tokenSvc))

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", h.Application.List)
			r.Patch("/{id}", h.Application.Review)
			r.Post("/{id}/convert", h.Application.Convert)
		})

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", h.Resident.List)
			r.Get("/{id}", h.Resident.Get)
			r.Patch("/{id}", h.Resident.Update)
			r.Post("/{id}/moveout", h.Resident.MoveOut)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.Payment.List)
			r.Post("/", h.Payment.Record)
			r.Patch("/{id}", h.Payment.Update)
		})

		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", h.Incident.List)
			r.Post("/", h.Incident.Record)
		})

		r.Get("/analytics", h.Analytics.Report)
		r.Get("/dashboard", h.Analytics.Dashboard)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Post("/{id}/read", h.Notification.MarkRead)
			r.Post("/read-all", h.Notification.MarkAllRead)
			r.Delete("/{id}", h.Notification.Delete)
		})
	})

	// Health & Readiness Routes
	r.Get("/healthz", h.Health.Liveness)
	r.Get("/readyz", h.Health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
