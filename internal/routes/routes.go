// Package routes wires repositories, services, and handlers into the fiber
// application. All dependency construction happens here, explicitly.
package routes

import (
	"log"

	"minipay/internal/config"
	"minipay/internal/handlers"
	"minipay/internal/jobs"
	"minipay/internal/middleware"
	"minipay/internal/queue"
	"minipay/internal/repositories"
	"minipay/internal/services/auth"
	"minipay/internal/services/transfer"
	"minipay/internal/services/user"
	"minipay/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes and returns the queue worker
// so main can run it.
func SetupRoutes(app *fiber.App) *queue.Worker {
	// Repositories
	userRepo := repositories.NewUserRepository(repositories.DB)
	accountRepo := repositories.NewAccountRepository(repositories.DB)

	// File storage
	avatarStore, err := storage.NewAvatarStore(config.GetEnv("AVATAR_DIR", "./uploads/avatars"))
	if err != nil {
		log.Fatalf("failed to init avatar storage: %v", err)
	}

	// Services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo, repositories.CacheService, avatarStore)
	transferService := transfer.NewService(accountRepo)

	// Job queue and worker
	jobQueue := queue.NewRedisQueue(repositories.Redis, queue.DefaultKey)
	worker := queue.NewWorker(repositories.Redis, queue.DefaultKey, config.GetIntEnv("WORKER_CONCURRENCY", 1))
	worker.Register(jobs.JobResetAllBalances, jobs.NewResetBalancesJob(accountRepo).Handler())

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	balanceHandler := handlers.NewBalanceHandler(transferService, jobQueue)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", userHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Get("/users", userHandler.ListUsers)
	protected.Get("/users/me", userHandler.GetMe)
	protected.Post("/users/me/avatar", userHandler.UploadAvatar)
	protected.Post("/logout", authHandler.LogoutUser)

	protected.Post("/balance/transfer", balanceHandler.Transfer)
	protected.Post("/balance-reset", middleware.AdminOnly, balanceHandler.ResetBalances)

	return worker
}
