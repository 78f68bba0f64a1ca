package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dewabisma/parfum-api/internal/api"
	"github.com/dewabisma/parfum-api/internal/assets"
	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/config"
	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/export"
	"github.com/dewabisma/parfum-api/internal/repository"
	"github.com/dewabisma/parfum-api/internal/webhook"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn.Pool, "./migrations"); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create upload directory")
	}

	users := repository.NewUserRepository(conn)
	tokens := repository.NewTokenRepository(conn)

	authService := auth.NewService(users, tokens, cfg.Auth, logger)
	perfumes := repository.NewPerfumeRepository(conn)
	exportService := export.NewService(perfumes, logger)

	server := api.NewServer(api.Dependencies{
		Perfumes:       perfumes,
		Brands:         repository.NewBrandRepository(conn),
		Notes:          repository.NewNoteRepository(conn),
		NoteCategories: repository.NewNoteCategoryRepository(conn),
		NoteAliases:    repository.NewNoteAliasRepository(conn),
		Articles:       repository.NewArticleRepository(conn),
		Tags:           repository.NewTagRepository(conn),
		Promotions:     repository.NewPromotionRepository(conn),
		Reviews:        repository.NewReviewRepository(conn),
		LikedPerfumes:  repository.NewLikedPerfumeRepository(conn),
		FavoritedNotes: repository.NewFavoritedNoteRepository(conn),
		Users:          users,
		Search:         repository.NewSearchRepository(conn),
		Auth:           authService,
		Export:         exportService,
		Cleaner:        assets.NewCleaner(cfg.Upload.Dir, logger),
		Notifier:       webhook.NewNotifier(cfg.Webhook.RevalidateURL, cfg.Webhook.Secret, logger),
		UploadDir:      cfg.Upload.Dir,
		Logger:         logger,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(server.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting api server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}
