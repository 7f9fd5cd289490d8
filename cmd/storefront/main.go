package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/unimarket/storefront/internal/authz"
	"github.com/unimarket/storefront/internal/backend"
	"github.com/unimarket/storefront/internal/cart"
	"github.com/unimarket/storefront/internal/catalog"
	"github.com/unimarket/storefront/internal/config"
	"github.com/unimarket/storefront/internal/events"
	"github.com/unimarket/storefront/internal/httpserver"
	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/internal/session"
	"github.com/unimarket/storefront/internal/storage"
	"github.com/unimarket/storefront/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	kv, err := openStorage(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	products, err := catalog.Load()
	if err != nil {
		log.Fatalf("catalog load error: %v", err)
	}

	client := backend.NewClient(cfg.BackendURL)
	producer := events.NewProducer(cfg.KafkaBrokers)
	notices := notify.NewBus()

	sessions := session.NewStore(client, kv, notices, producer)
	carts := cart.NewStore(kv, producer)

	sessions.Subscribe(func(clientID string, sess *models.Session) {
		if sess == nil {
			logger.Info("session ended", "client_id", clientID)
			return
		}
		logger.Info("session established", "client_id", clientID, "role", sess.Role.String())
	})

	guard := authz.NewGuard(sessions, cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	deps := httpserver.Deps{
		Guard:       guard,
		AuthHandler: &httpserver.AuthHTTP{Sessions: sessions, Notices: notices},
		Catalog:     &httpserver.CatalogHTTP{Catalog: products},
		Cart:        &httpserver.CartHTTP{Carts: carts, Catalog: products, Notices: notices, Events: producer},
		Profile:     &httpserver.ProfileHTTP{Backend: client, Sessions: sessions, Notices: notices},
		Admin:       &httpserver.AdminHTTP{Backend: client, Catalog: products},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("storefront listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// openStorage prefers Redis when configured, then Postgres, and falls
// back to the embedded SQLite file for single-node setups.
func openStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	if cfg.RedisAddr != "" {
		return storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	}
	return storage.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
}
