package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"usersvc/internal/core"
	"usersvc/internal/httpserver/handlers"
	"usersvc/internal/store"
)

// Services bundles what the router wires into handlers.
type Services struct {
	Store         *store.Store
	Users         core.UserStore
	Authenticator *core.Authenticator
	Sessions      *core.SessionManager
	Resets        *core.ResetManager
	Roles         *core.RoleService
}

func NewRouter(svc Services, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	// Bounds every storage call made under the request context; a slow store
	// surfaces as 503, not as a hung login.
	r.Use(middleware.Timeout(15 * time.Second))

	r.Post("/v1/auth/login", handlers.Login(svc.Authenticator, svc.Sessions, lg))
	r.Post("/v1/auth/reset/request", handlers.RequestPasswordReset(svc.Users, svc.Resets, lg))
	r.Post("/v1/auth/reset/confirm", handlers.ConfirmPasswordReset(svc.Resets, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(SessionAuth(svc.Sessions))
		protected.Get("/v1/me", handlers.Me(lg))
		protected.Post("/v1/auth/logout", handlers.Logout(svc.Sessions, lg))
		protected.Get("/v1/logs", handlers.MyLogs(svc.Store, lg))

		protected.Group(func(admin chi.Router) {
			admin.Use(RequireRole("Administrator"))
			admin.Get("/v1/admin/users", handlers.ListUsers(svc.Store, lg))
			admin.Post("/v1/admin/users", handlers.CreateUser(svc.Store, lg))
			admin.Get("/v1/admin/users/{id}", handlers.GetUser(svc.Store, lg))
			admin.Patch("/v1/admin/users/{id}", handlers.UpdateUser(svc.Store, lg))
			admin.Delete("/v1/admin/users/{id}", handlers.DeleteUser(svc.Store, lg))
			admin.Post("/v1/admin/users/{id}/roles", handlers.AssignRole(svc.Roles, lg))
			admin.Delete("/v1/admin/users/{id}/roles/{roleID}", handlers.RemoveRole(svc.Roles, lg))
			admin.Get("/v1/admin/roles", handlers.ListRoles(svc.Store, lg))
			admin.Get("/v1/admin/stats", handlers.Stats(svc.Store, lg))
		})
	})

	r.Get("/healthz", handlers.Health(svc.Store))
	return r
}
