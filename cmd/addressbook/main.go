package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"addressbook/internal/config"
	"addressbook/internal/database"
	httpapi "addressbook/internal/http"
	"addressbook/internal/logger"
	"addressbook/internal/repository"
	"addressbook/internal/service"
	"addressbook/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "addressbook")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db, log); err != nil {
		cancel()
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	usersRepo := repository.NewPostgresUsersRepository(db)
	contactsRepo := repository.NewPostgresContactsRepository(db)
	categoriesRepo := repository.NewPostgresCategoriesRepository(db)

	authService := service.NewAuthService(usersRepo, kv, log)
	contactService := service.NewContactService(contactsRepo, categoriesRepo, log)
	categoryService := service.NewCategoryService(categoriesRepo, log)
	mailClient := service.NewMailAPIClient(cfg.Mail, log)
	emailService := service.NewEmailService(contactsRepo, categoriesRepo, mailClient, log)

	// Demo login available out of the box; keeps working across restarts.
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedDemoUser(seedCtx); err != nil {
		log.Warn("Demo user seeding failed", zap.Error(err))
	}
	seedCancel()

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoutes()
	router.RegisterAuthRoutes(authService, httpapi.NewAuthHandler(authService, log))
	router.RegisterContactRoutes(authService, httpapi.NewContactsHandler(contactService, emailService, log))
	router.RegisterCategoryRoutes(authService, httpapi.NewCategoriesHandler(categoryService, emailService, log))

	server := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Signal received, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
