package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/Dosada05/bracket-engine/config"
	"github.com/Dosada05/bracket-engine/db"
	_ "github.com/Dosada05/bracket-engine/docs"
	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/repositories"
	api "github.com/Dosada05/bracket-engine/routes"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/Dosada05/bracket-engine/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		hashPassword()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("backend", cfg.StorageBackend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	bracketRepo, poolRepo, closer, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	tournamentService := services.NewTournamentService(bracketRepo, poolRepo, uploader, hub, cfg.Defaults, logger)
	authService := services.NewAuthService(cfg.OrganizerEmail, cfg.OrganizerPasswordHash)
	if cfg.OrganizerEmail == "" || cfg.OrganizerPasswordHash == "" {
		logger.Warn("organizer account not configured, mutating routes are unreachable")
	}

	if uploader != nil {
		scheduler, err := startArchiver(ctx, cfg.ArchiveSchedule, tournamentService, logger)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Brackets:  handlers.NewBracketHandler(tournamentService, cfg.PublicBaseURL),
		Pools:     handlers.NewPoolHandler(tournamentService),
		Schedules: handlers.NewScheduleHandler(tournamentService),
		WebSocket: handlers.NewWebSocketHandler(hub, tournamentService, cfg.AllowedOrigins, logger),
	}, cfg.JWTSecretKey, cfg.AllowedOrigins, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Join(fmt.Errorf("graceful shutdown failed: %w", err), server.Close())
	}
	logger.Info("server shutdown complete")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.BracketSetRepository, repositories.PoolStageRepository, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx, conn); err != nil {
			return nil, nil, nil, errors.Join(err, conn.Close())
		}
		logger.Info("database connection established")
		return repositories.NewPostgresBracketSetRepository(conn), repositories.NewPostgresPoolStageRepository(conn), conn, nil
	default:
		store, err := repositories.OpenBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("bolt store opened", slog.String("path", cfg.BoltPath))
		return repositories.NewBoltBracketSetRepository(store), repositories.NewBoltPoolStageRepository(store), store, nil
	}
}

// startArchiver uploads completed bracket sets on schedule.
func startArchiver(ctx context.Context, schedule string, ts services.TournamentService, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		n, err := ts.ArchiveCompleted(ctx)
		if err != nil {
			logger.Error("archive run failed", slog.Int("archived", n), slog.Any("error", err))
			return
		}
		if n > 0 {
			logger.Info("archived completed bracket sets", slog.Int("archived", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_SCHEDULE %q: %w", schedule, err)
	}
	c.Start()
	logger.Info("archive scheduler started", slog.String("schedule", schedule))
	return c, nil
}

// hashPassword reads a password from stdin and prints its bcrypt hash for
// ORGANIZER_PASSWORD_HASH.
func hashPassword() {
	password, err := utils.ReadPassword(os.Stdin)
	if err == nil {
		var hash string
		if hash, err = utils.HashPassword(password); err == nil {
			fmt.Println(hash)
			return
		}
	}
	fmt.Fprintln(os.Stderr, "hash-password:", err)
	os.Exit(1)
}
