// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/11VZ/AuroraBot/config"
	"github.com/11VZ/AuroraBot/handlers"
	"github.com/11VZ/AuroraBot/internal/platform"
	_ "github.com/11VZ/AuroraBot/migrations"
	"github.com/11VZ/AuroraBot/monitoring"
	"github.com/11VZ/AuroraBot/security"
	"github.com/11VZ/AuroraBot/services"
	"github.com/11VZ/AuroraBot/utils"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the chat platform collaborator
	chat, err := platform.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize platform: %v", err)
	}
	defer chat.Close(ctx)

	// Initialize services
	monitor := monitoring.NewMonitor()
	store := services.NewPBStore(app)
	sessionService := services.NewSessionService(store, chat, monitor)
	queueService := services.NewQueueService(store, chat, sessionService, monitor, redisClient, cfg)
	verifyService := services.NewVerifyService(store, chat, monitor, cfg)

	// Initialize handlers
	queueHandler := handlers.NewQueueHandler(app, queueService)
	sessionHandler := handlers.NewSessionHandler(app, queueService)
	verifyHandler := handlers.NewVerifyHandler(app, verifyService, cfg.VerifySecretHash)
	adminHandler := handlers.NewAdminHandler(app, queueService)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.JoinRateLimit, cfg.JoinRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Recover the persisted queue snapshot before accepting commands.
		// Any session open before the restart is lost by design.
		if err := queueService.Restore(ctx); err != nil {
			return err
		}

		// Queue endpoints
		queue := e.Router.Group("/api/queue")
		queue.BindFunc(rateLimiter.Middleware())
		queue.POST("/open", queueHandler.OpenQueue)
		queue.POST("/join", queueHandler.JoinQueue)
		queue.POST("/leave", queueHandler.LeaveQueue)
		queue.POST("/close", queueHandler.CloseQueue)
		queue.GET("/status", queueHandler.GetQueueStatus)
		queue.GET("/position", queueHandler.GetQueuePosition)

		// Session endpoints
		queue.POST("/next", sessionHandler.NextTestee)
		queue.POST("/skip", sessionHandler.SkipTestee)
		queue.POST("/assign", sessionHandler.AssignTier)
		queue.GET("/session", sessionHandler.GetCurrentSession)

		// Verification collaborator webhook
		e.Router.POST("/api/verify/confirm", verifyHandler.ConfirmVerification)

		// Admin endpoints
		e.Router.GET("/api/admin/queue-details", adminHandler.GetQueueDetails)
		e.Router.POST("/api/admin/remove-from-queue", adminHandler.RemoveFromQueue)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
