package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal/auth"
	"github.com/smdiallo/presence-management/internal/dashboard"
	"github.com/smdiallo/presence-management/internal/employee"
	"github.com/smdiallo/presence-management/internal/presence"
	"github.com/smdiallo/presence-management/internal/transport"
	"github.com/smdiallo/presence-management/internal/transport/middleware"
	"github.com/smdiallo/presence-management/internal/view"
)

// RegisterAllRoutes wires the full HTTP surface. Everything except the
// login form and the health endpoints sits behind the session gate.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	sessions *transport.SessionManager,
	authHandler *auth.Handler,
	dashboardHandler *dashboard.Handler,
	employeeHandler *employee.Handler,
	presenceHandler *presence.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Handle("/static/*", view.StaticHandler())

	router.Get("/login", authHandler.Login)
	router.Post("/login", authHandler.Login)

	router.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(sessions))

		pr.Get("/logout", authHandler.Logout)
		pr.Get("/settings", authHandler.Settings)
		pr.Post("/settings", authHandler.Settings)

		pr.Get("/", dashboardHandler.Index)

		pr.Get("/employes", employeeHandler.List)
		pr.Post("/employes/add", employeeHandler.Add)
		pr.Get("/edit_employe/{matricule}", employeeHandler.Edit)
		pr.Post("/edit_employe/{matricule}", employeeHandler.Edit)
		pr.Post("/delete_employe/{matricule}", employeeHandler.Delete)

		pr.Post("/entry/{matricule}", presenceHandler.Entry)
		pr.Post("/exit/{matricule}", presenceHandler.Exit)
		pr.Get("/presences/enregistrer", presenceHandler.Register)
		pr.Get("/presences/jour", presenceHandler.Today)
		pr.Get("/presences/historique", presenceHandler.History)
	})
}
