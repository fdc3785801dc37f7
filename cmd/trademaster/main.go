// Package main запускает HTTP-сервер платформы TradeMaster.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/trademaster/internal/config"
	"github.com/mmeshcher/trademaster/internal/handler"
	"github.com/mmeshcher/trademaster/internal/model"
	"github.com/mmeshcher/trademaster/internal/repository"
	"github.com/mmeshcher/trademaster/internal/service"
	"github.com/mmeshcher/trademaster/internal/store"
)

type stateRepository interface {
	store.Repository
	io.Closer
}

func openRepository(cfg *config.Config) (stateRepository, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemoryRepository(), nil
	case config.StorageFile:
		return repository.NewFileRepository(cfg.StorageDir, cfg.StorageKey)
	case config.StoragePostgres:
		return repository.NewPostgresRepository(cfg.DatabaseURI, cfg.StorageKey)
	case config.StorageRedis:
		return repository.NewRedisRepository(repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.StorageKey)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := openRepository(cfg)
	if err != nil {
		sugar.Fatalw("storage initialization error", "storage", cfg.Storage, "error", err.Error())
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, repo,
		store.WithLogger(logger.Named("store")),
		store.WithToastDwell(cfg.ToastDwell),
		store.WithUPIDetails(model.UPIDetails{VPA: cfg.UPIVPA, Name: cfg.UPIName}),
	)
	if err != nil {
		sugar.Fatalw("state restore error", "error", err.Error())
	}
	defer st.Close()

	svc := service.NewService(st, service.WithLogger(logger.Named("service")))
	defer svc.Close()

	h := handler.NewHandler(svc, logger)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	g, ctx := errgroup.WithContext(ctx)

	// Фоновое сохранение состояния
	g.Go(func() error {
		return st.Run(ctx)
	})

	g.Go(func() error {
		sugar.Infow("starting trademaster server", "addr", cfg.RunAddress, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("application terminated with error", "error", err)
	}
}
