// Command server runs the HexForge academy backend: course catalog,
// storefront, billing, notifications, and editorial content behind a single
// HTTP API.
//
//	@title			HexForge Academy API
//	@version		1.0
//	@description	REST API for cybersecurity courses, hardware-hacking merchandise, and editorial content.
//	@BasePath		/api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/hexforge/go-academy-backend/docs" // swagger docs (generated)
	"github.com/hexforge/go-academy-backend/internal/config"
	httpapi "github.com/hexforge/go-academy-backend/internal/http"
	"github.com/hexforge/go-academy-backend/internal/observability"
	"github.com/hexforge/go-academy-backend/internal/repo"
	"github.com/hexforge/go-academy-backend/internal/store"
	"github.com/hexforge/go-academy-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags; APP_VERSION overrides it so
// container deployments can report a release without rebuilding.
var version = "dev"

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	version = sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	docs.SwaggerInfo.BasePath = cfg.APIBasePath

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	st := store.New()

	r := gin.New()
	httpapi.RegisterRoutes(r, db, st, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Block until interrupted, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}
