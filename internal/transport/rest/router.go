package rest

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/metrics"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const APIPrefix = "/api/v1"

// Routes bundles everything RegisterAllRoutes mounts. Metrics and OpenAPI are
// optional.
type Routes struct {
	Base           *transport.BaseHandler
	Health         *HealthHandler
	Auth           *auth.Handler
	User           *user.Handler
	Leave          *leave.Handler
	LoginLimiter   *middleware.RateLimiter
	Metrics        *metrics.Metrics
	MetricsPath    string
	OpenAPI        []byte
	AllowedOrigins []string
}

func RegisterAllRoutes(router *chi.Mux, rt Routes) {
	rbac := auth.NewRBACAuthorization(rt.Base)

	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.Trace)
	router.Use(middleware.CORS(rt.AllowedOrigins))
	router.Use(middleware.Recovery(rt.Base))
	if rt.Metrics != nil {
		router.Use(rt.Metrics.Middleware)
	}
	router.Use(middleware.Logging)

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		rt.Base.WriteError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		rt.Base.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if rt.Metrics != nil {
		path := rt.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, rt.Metrics.Handler())
	}

	if rt.OpenAPI != nil {
		router.Get("/openapi.yml", swagger.SpecHandler(rt.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", rt.Health.Health)
		r.Get("/ping", rt.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.With(rt.LoginLimiter.Middleware).Post("/login", rt.Auth.Login)
			ar.Post("/logout", rt.Auth.Logout)
		})

		r.Get("/leave-types", rt.Leave.GetLeaveTypes)

		r.Group(func(pr chi.Router) {
			pr.Use(rt.Auth.AuthMiddleware)

			pr.Get("/users/me", rt.User.GetCurrentUser)

			pr.Route("/leaves", func(lr chi.Router) {
				lr.With(rbac.RequireEmployee()).Post("/", rt.Leave.CreateLeave)
				lr.With(rbac.RequireEmployee()).Get("/mine", rt.Leave.GetMyLeaves)
				lr.With(rbac.RequireAdmin()).Get("/", rt.Leave.GetAllLeaves)
				lr.Get("/{id}", rt.Leave.GetLeave)
				lr.With(rbac.RequireAdmin()).Patch("/{id}/status", rt.Leave.UpdateLeaveStatus)
			})
		})
	})
}
