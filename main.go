package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"medical-records-server/internal/config"
	"medical-records-server/internal/logger"
	"medical-records-server/internal/models"
	"medical-records-server/internal/prediction"
	"medical-records-server/internal/routes"
	"medical-records-server/internal/storage"
	"medical-records-server/internal/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "medical-records",
		Short:         "REST backend for doctors, patients, diagnostic images and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.LogLevel, cfg.Environment)

			db, err := openDatabase(cfg, false)
			if err != nil {
				return err
			}
			defer closeDatabase(db, log)

			log.Info().Str("driver", cfg.Database.Driver).Msg("schema migrated")
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set")
			}

			ttl := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
			token, err := utils.GenerateToken(subject, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject, e.g. the calling service")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func openDatabase(cfg *config.Config, silent bool) (*gorm.DB, error) {
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Silent: silent,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB, log zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("closing database")
	}
}

func runServer(cfg *config.Config) error {
	log := logger.New(cfg.LogLevel, cfg.Environment)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg, !cfg.IsDev())
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	store, err := storage.NewLocalFileStore(cfg.Upload.Dir)
	if err != nil {
		return err
	}

	router := routes.NewRouter(db, cfg, routes.Options{
		Store:  store,
		Scorer: prediction.NewRandomScorer(),
		Logger: log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("driver", cfg.Database.Driver).
			Str("upload_dir", cfg.Upload.Dir).
			Bool("auth", cfg.AuthEnabled()).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
