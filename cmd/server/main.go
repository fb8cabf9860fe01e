package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mih-kelo/sales-journal/internal/config"
	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/httpapi"
	"github.com/Mih-kelo/sales-journal/internal/journal"
	"github.com/Mih-kelo/sales-journal/internal/logger"
	"github.com/Mih-kelo/sales-journal/internal/migrate"
	"github.com/Mih-kelo/sales-journal/internal/store"
	"github.com/Mih-kelo/sales-journal/internal/store/memory"
	pgstore "github.com/Mih-kelo/sales-journal/internal/store/postgres"
	redisstore "github.com/Mih-kelo/sales-journal/internal/store/redis"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := validatePaymentConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var blobs store.Blob
	closers := make([]func() error, 0, 1)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback")
		}
		blobs = pg
		closers = append(closers, pg.Close)
		log.Info().Msg("store: postgres")
	case cfg.RedisAddr != "":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory store")
			blobs = memory.New()
		} else {
			blobs = rs
			closers = append(closers, rs.Close)
			log.Info().Msg("store: redis")
		}
	default:
		blobs = memory.New()
		log.Info().Msg("store: in-memory")
	}

	repo := journal.New(blobs, log)
	repo.Load(ctx)
	log.Info().Int("records", repo.Len()).Msg("journal loaded")

	today := time.Now().UTC().Format("2006-01-02")
	if err := migrate.Run(ctx, blobs, repo, today, cfg.DefaultPaymentMethod, log); err != nil {
		log.Warn().Err(err).Msg("legacy migration failed, continuing with current data")
	}

	api := httpapi.New(repo, cfg.AllowedOrigin, log)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Address()).Msg("sales journal listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("close error")
		}
	}

	log.Info().Msg("server stopped")
}

func validatePaymentConfig(cfg config.Config) error {
	switch cfg.DefaultPaymentMethod {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentTransfer, domain.PaymentQRIS:
		return nil
	}
	return fmt.Errorf("DEFAULT_PAYMENT_METHOD %q is not a known payment method", cfg.DefaultPaymentMethod)
}
