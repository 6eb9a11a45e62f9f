package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/vantahq/pulseboard/internal/api"
	"github.com/vantahq/pulseboard/internal/config"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/mail"
	"github.com/vantahq/pulseboard/internal/metrics"
	"github.com/vantahq/pulseboard/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Pulseboard API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	files, err := buildStorage(cfg)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}

	mailer := mail.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	collectors := metrics.New()
	handler := api.NewHandler(database, cfg, files, mailer, collectors)

	app := fiber.New(fiber.Config{
		AppName:               "Pulseboard",
		DisableStartupMessage: true,
		BodyLimit:             12 << 20,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORS.AllowedOrigins}))
	app.Use(api.SecurityHeaders)
	app.Use(handler.MetricsMiddleware)

	if cfg.Storage.Backend == "local" {
		app.Static("/uploads", cfg.Storage.UploadsDir)
	}
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Pulseboard listening on %s (db: %s, storage: %s)", cfg.Addr(), cfg.Database.Path, cfg.Storage.Backend)
	return app.Listen(cfg.Addr())
}

func buildStorage(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Backend(
			cfg.Storage.S3.Region,
			cfg.Storage.S3.Bucket,
			cfg.Storage.S3.Endpoint,
			cfg.Storage.S3.AccessKey,
			cfg.Storage.S3.SecretKey,
		)
	case "", "local":
		return storage.NewLocalBackend(cfg.Storage.UploadsDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
