package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/intraforms/portal-api/internal/auth"
	"github.com/intraforms/portal-api/internal/department"
	"github.com/intraforms/portal-api/internal/deptlink"
	"github.com/intraforms/portal-api/internal/quicklink"
	"github.com/intraforms/portal-api/internal/role"
	"github.com/intraforms/portal-api/internal/transport/middleware"
	"github.com/intraforms/portal-api/internal/transport/swagger"
	"github.com/intraforms/portal-api/internal/user"
)

// Handlers bundles every REST handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Role       *role.Handler
	Department *department.Handler
	DeptLink   *deptlink.Handler
	QuickLink  *quicklink.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.Refresh)
		})

		// Everything below requires a valid access token
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Group(func(rr chi.Router) {
					rr.Use(rbac.RequirePermissions("users.read"))
					rr.Get("/", h.User.GetAll)
					rr.Get("/{id}", h.User.GetByID)
				})
				ur.Group(func(cr chi.Router) {
					cr.Use(rbac.RequirePermissions("users.create"))
					cr.Post("/", h.User.Create)
				})
				ur.Group(func(urr chi.Router) {
					urr.Use(rbac.RequirePermissions("users.update"))
					urr.Put("/{id}", h.User.Update)
				})
				ur.Group(func(dr chi.Router) {
					dr.Use(rbac.RequirePermissions("users.delete"))
					dr.Delete("/{id}", h.User.Delete)
				})
			})

			pr.Get("/roles", h.Role.GetAll)

			pr.Route("/departments", func(dr chi.Router) {
				dr.Get("/", h.Department.GetAll)
				dr.Group(func(cr chi.Router) {
					cr.Use(rbac.RequirePermissions("departments.create"))
					cr.Post("/", h.Department.Create)
				})
				dr.Group(func(urr chi.Router) {
					urr.Use(rbac.RequirePermissions("departments.update"))
					urr.Put("/{id}", h.Department.Update)
				})
				dr.Group(func(xr chi.Router) {
					xr.Use(rbac.RequirePermissions("departments.delete"))
					xr.Delete("/{id}", h.Department.Delete)
				})
			})

			pr.Route("/departmentlinks", func(lr chi.Router) {
				lr.Get("/", h.DeptLink.GetAll)
				lr.Group(func(cr chi.Router) {
					cr.Use(rbac.RequirePermissions("departmentlinks.create"))
					cr.Get("/all", h.DeptLink.GetAllWithDepartments)
					cr.Post("/", h.DeptLink.Create)
				})
				lr.Group(func(urr chi.Router) {
					urr.Use(rbac.RequirePermissions("departmentlinks.update"))
					urr.Put("/{id}", h.DeptLink.Update)
					urr.Post("/reorder", h.DeptLink.Reorder)
				})
				lr.Group(func(xr chi.Router) {
					xr.Use(rbac.RequirePermissions("departmentlinks.delete"))
					xr.Delete("/{id}", h.DeptLink.Delete)
				})
			})

			pr.Route("/quicklinks", func(qr chi.Router) {
				qr.Get("/", h.QuickLink.GetAll)
				qr.Group(func(cr chi.Router) {
					cr.Use(rbac.RequirePermissions("quicklinks.create"))
					cr.Post("/", h.QuickLink.Create)
				})
				qr.Group(func(urr chi.Router) {
					urr.Use(rbac.RequirePermissions("quicklinks.update"))
					urr.Put("/{id}", h.QuickLink.Update)
					urr.Post("/reorder", h.QuickLink.Reorder)
				})
				qr.Group(func(xr chi.Router) {
					xr.Use(rbac.RequirePermissions("quicklinks.delete"))
					xr.Delete("/{id}", h.QuickLink.Delete)
				})
			})
		})
	})
}
