package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodwagen/foodwagen/internal/config"
	"github.com/foodwagen/foodwagen/internal/handlers"
	"github.com/foodwagen/foodwagen/internal/media"
	"github.com/foodwagen/foodwagen/internal/middleware"
	"github.com/foodwagen/foodwagen/internal/repository"
	"github.com/foodwagen/foodwagen/internal/service"
	"github.com/foodwagen/foodwagen/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting foodwagen api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Connect to MongoDB
	ctx := context.Background()
	db, err := repository.NewMongo(ctx, cfg.Database.URI, cfg.Database.Name, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Initialize media store client; missing credentials are surfaced here
	// and again on every upload attempt.
	mediaClient := media.NewClient(cfg.Cloudinary, log)

	// Initialize repositories and services
	foodRepo := repository.NewMongoFoodRepository(db)
	foodService := service.NewFoodService(foodRepo, mediaClient, cfg.Cloudinary.UploadFolder, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	foodHandler := handlers.NewFoodHandler(foodService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register health check and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/", handlers.Welcome(log))

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", foodHandler.ListFoods)
			r.Get("/search", foodHandler.SearchFoods)
			r.Get("/{foodID}", foodHandler.GetFood)
			r.Post("/", foodHandler.CreateFood)
			r.Put("/{foodID}", foodHandler.UpdateFood)
			r.Delete("/{foodID}", foodHandler.DeleteFood)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := db.Disconnect(context.Background()); err != nil {
		log.Error("failed to close database connection", "error", err)
	}

	log.Info("server stopped gracefully")
}
