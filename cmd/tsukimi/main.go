package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/terraincognita07/tsukimi/internal/api"
	"github.com/terraincognita07/tsukimi/internal/config"
	"github.com/terraincognita07/tsukimi/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("configuration invalid")
	}

	log := newLogger(cfg)

	location := mustLoadLocation(cfg.Timezone, log)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	handler, err := api.NewHandler(database, cfg, location, log)
	if err != nil {
		log.Fatal().Err(err).Msg("handler init failed")
	}

	app := fiber.New(fiber.Config{
		AppName:               "Tsukimi",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", location.String()).
		Msg("tsukimi listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer = os.Stderr
	logger := zerolog.New(writer)
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func mustLoadLocation(name string, log zerolog.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Str("tz", name).Msg("invalid timezone, falling back to UTC")
		return time.UTC
	}
	return location
}
