package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/api"
	"inkpress/internal/app/service"
	"inkpress/internal/common/security"
	"inkpress/internal/domain/repository"
	"inkpress/internal/platform/cache"
	"inkpress/internal/platform/config"
	"inkpress/internal/platform/database"
	"inkpress/internal/platform/mail"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded.")

	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)

	client, db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer database.Close(client)
	log.Println("MongoDB connected.")

	rdb, err := cache.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected.")

	userRepo := repository.NewMongoUserRepository(db)
	postRepo := repository.NewMongoPostRepository(db)
	categoryRepo := repository.NewMongoCategoryRepository(db)

	mailer := mail.NewMailer(cfg)
	views := cache.NewViewTracker(rdb, cfg.ViewDedupeTTL)

	authService := service.NewAuthService(userRepo, tokens, mailer, cfg.ResetTokenTTL, cfg.BaseURL)
	postService := service.NewPostService(postRepo, categoryRepo, userRepo, views)
	categoryService := service.NewCategoryService(categoryRepo, postRepo)

	router := api.NewRouter(tokens, authService, postService, categoryService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully.")
}
