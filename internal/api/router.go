package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/planetcare/server/internal/api/handlers"
	"github.com/planetcare/server/internal/api/middleware"
	"github.com/planetcare/server/internal/auth"
	"github.com/planetcare/server/internal/config"
	"github.com/planetcare/server/internal/domain/donations"
	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/users"
	"github.com/planetcare/server/internal/metrics"
	"github.com/planetcare/server/internal/payments"
)

// Dependencies carries everything the router needs. The caller owns
// construction and lifecycle; the router only wires.
type Dependencies struct {
	Config    config.Config
	Logger    zerolog.Logger
	DB        handlers.Pinger
	JWT       *auth.JWTManager
	Users     *users.Service
	Events    *events.Service
	Donations *donations.Service
	Intents   payments.IntentClient
}

type guard func(http.Handler) http.Handler

type route struct {
	method  string
	pattern string
	guard   guard
	handler http.HandlerFunc
}

// NewRouter builds the HTTP surface. Every route and its guard sits in
// one table so who-can-call-what is reviewable at a glance.
func NewRouter(deps Dependencies) http.Handler {
	env := deps.Config.Environment

	authHandler := handlers.NewAuthHandler(deps.JWT, env)
	eventsHandler := handlers.NewEventsHandler(deps.Events, env)
	usersHandler := handlers.NewUsersHandler(deps.Users, env)
	paymentsHandler := handlers.NewPaymentsHandler(deps.Intents, env)
	donationsHandler := handlers.NewDonationsHandler(deps.Donations, env)
	adminHandler := handlers.NewAdminHandler(deps.Users, deps.Events, env)

	requireAuth := middleware.RequireAuth(deps.JWT, env)
	requireAdmin := middleware.RequireAdmin(deps.Users, env)
	adminOnly := func(next http.Handler) http.Handler {
		return requireAuth(requireAdmin(next))
	}

	routes := []route{
		{http.MethodPost, "/jwt", nil, authHandler.IssueToken},
		{http.MethodPost, "/logout", nil, authHandler.Logout},

		{http.MethodGet, "/api/v1/events", nil, eventsHandler.List},
		{http.MethodGet, "/api/v1/events/{id}", nil, eventsHandler.Get},
		{http.MethodPatch, "/api/v1/events/volunteer/{id}", nil, eventsHandler.Volunteer},
		{http.MethodGet, "/api/v1/events/volunteered/{email}", nil, eventsHandler.Volunteered},

		{http.MethodPost, "/api/v1/users", nil, usersHandler.Create},
		{http.MethodPost, "/api/v1/create-payment-intent", nil, paymentsHandler.CreateIntent},
		{http.MethodPost, "/api/v1/donations", nil, donationsHandler.Create},
		{http.MethodGet, "/api/v1/donations/{email}", nil, donationsHandler.ListByEmail},

		{http.MethodGet, "/api/v1/admin/users", adminOnly, adminHandler.ListUsers},
		{http.MethodPatch, "/api/v1/admin/users/{email}/role", adminOnly, adminHandler.AssignRole},
		{http.MethodPost, "/api/v1/admin/events", adminOnly, adminHandler.CreateEvent},
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.guard != nil {
			h = rt.guard(h)
		}
		mux.Handle(rt.method+" "+rt.pattern, h)
	}

	mux.HandleFunc("GET /healthz", handlers.Healthz)
	mux.Handle("GET /readyz", handlers.Readyz(deps.DB))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("/", handlers.Root)

	var handler http.Handler = mux
	handler = middleware.CORS(deps.Config.CORS, deps.Logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(deps.Logger)(handler)
	handler = middleware.CorrelationID(deps.Logger)(handler)
	return handler
}
