package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/boot"
	"github.com/bhagyaborus/socialsphere/internal/handlers"
	"github.com/bhagyaborus/socialsphere/internal/service/auth"
	"github.com/bhagyaborus/socialsphere/internal/service/generator"
	"github.com/bhagyaborus/socialsphere/internal/service/ingest"
	"github.com/bhagyaborus/socialsphere/internal/service/notifier"
	"github.com/bhagyaborus/socialsphere/internal/service/publisher"
	"github.com/bhagyaborus/socialsphere/internal/service/workflow"
	"github.com/bhagyaborus/socialsphere/internal/store"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
)

const defaultWorkflowName = "Bhagya Sharma Social Media Agent"

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	db, err := store.New(config)
	if err != nil {
		log.Fatalf("opening store: %+v", err)
	}
	defer db.Close()

	if _, err := db.EnsureWorkflow(defaultWorkflowName); err != nil {
		log.Fatalf("seeding workflow: %+v", err)
	}

	generatorService := generator.New(config)
	defer generatorService.Close()

	publisherService := publisher.New(config)
	notifierService := notifier.New(config)
	workflowService := workflow.New(db, publisherService)
	gatewayService := ingest.New(db, generatorService, workflowService, notifierService)
	defer gatewayService.Close()
	if err := gatewayService.Recover(context.Background()); err != nil {
		log.Errorf("recovering unprocessed messages: %+v", err)
	}
	authService := auth.New(db, config.Auth.JWTSecret)

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("socialsphere"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	server.POST("/api/telegram/webhook", handlers.Webhook(gatewayService))
	server.GET("/api/telegram/messages", handlers.GetRecentMessages(db))

	server.GET("/api/posts", handlers.GetPosts(db))
	server.GET("/api/posts/status/:status", handlers.GetPostsByStatus(db))
	server.POST("/api/posts", handlers.CreatePost(workflowService))
	server.PATCH("/api/posts/:id", handlers.DecidePost(workflowService))
	server.PUT("/api/posts/:id/metrics", handlers.UpdatePostMetrics(db))

	server.POST("/api/content/generate", handlers.GenerateContent(generatorService, workflowService))
	server.GET("/api/workflows", handlers.GetWorkflows(db))
	server.POST("/api/workflow/test", handlers.TestWorkflow(generatorService, workflowService, db, defaultWorkflowName))

	server.GET("/api/dashboard/stats", handlers.GetDashboardStats(db))

	server.GET("/api/config", handlers.GetCredentials(db))
	server.POST("/api/config", handlers.SaveCredential(db))
	server.PUT("/api/config/:name", handlers.UpdateCredential(db))

	server.POST("/api/auth/register", handlers.RegisterUser(authService))
	server.POST("/api/auth/login", handlers.Login(authService))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
