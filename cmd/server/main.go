// Command server starts the Jimmy chat agent HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/emarketbank/jimmy-agent/internal/adapter/ai/gemini"
	"github.com/emarketbank/jimmy-agent/internal/adapter/ai/openai"
	"github.com/emarketbank/jimmy-agent/internal/adapter/configstore/redisstore"
	"github.com/emarketbank/jimmy-agent/internal/adapter/configstore/staticstore"
	"github.com/emarketbank/jimmy-agent/internal/adapter/httpserver"
	"github.com/emarketbank/jimmy-agent/internal/adapter/observability"
	"github.com/emarketbank/jimmy-agent/internal/app"
	"github.com/emarketbank/jimmy-agent/internal/config"
	"github.com/emarketbank/jimmy-agent/internal/domain"
	"github.com/emarketbank/jimmy-agent/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Config store: Redis when configured, otherwise the embedded defaults
	// (admin routes stay off in that mode).
	var (
		store      domain.ConfigStore
		storeCheck func(context.Context) error
	)
	if cfg.StoreEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rs := redisstore.New(rdb, cfg.ConfigCacheTTL, cfg.ConfigHistory)
		if err := rs.Ping(ctx); err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		if err := seedStore(ctx, cfg, rs); err != nil {
			slog.Error("seed config failed", slog.Any("error", err))
			os.Exit(1)
		}
		store = rs
		storeCheck = rs.Ping
	} else {
		slog.Info("no config store configured, serving embedded defaults")
		store = staticstore.New(domain.DefaultRuntimeConfig(), "")
	}

	// Provider clients share one instrumented HTTP client; per-attempt
	// deadlines come from the waterfall context, not this transport timeout.
	hc := &http.Client{
		Timeout:   60 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	providers := []domain.ChatProvider{
		openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, hc),
		gemini.New(cfg.GeminiAPIKey, cfg.GeminiBaseURL, hc),
	}

	chatSvc := usecase.NewChatService(store, providers)

	srv := httpserver.NewServer(cfg, chatSvc, store, storeCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
