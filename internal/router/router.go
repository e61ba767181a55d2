package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/config"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)

			tasks.Get("/", taskHandler.List)
			tasks.Post("/", taskHandler.Create)
			tasks.Get("/statistics", taskHandler.Statistics)
			tasks.Get("/{task_id}", taskHandler.Get)
			tasks.Put("/{task_id}", taskHandler.Update)
			tasks.Delete("/{task_id}", taskHandler.Delete)
			tasks.Patch("/{task_id}/complete", taskHandler.Complete)
			tasks.Patch("/{task_id}/incomplete", taskHandler.Incomplete)
		})
	})

	return r
}
