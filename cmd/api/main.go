package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"attendtrack/internal/attendance"
	"attendtrack/internal/auth"
	"attendtrack/internal/config"
	"attendtrack/internal/handler"
	"attendtrack/internal/httpmiddleware"
	"attendtrack/internal/metrics"
	"attendtrack/internal/store"
	"attendtrack/internal/users"
)

func main() {
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

type userStore interface {
	auth.CredentialStore
	auth.BootstrapStore
}

type backends struct {
	users      userStore
	attendance attendance.Store
	health     map[string]handler.HealthChecker
	closers    []func() error
}

func (b *backends) Close() {
	for _, c := range b.closers {
		_ = c()
	}
}

// openBackends connects the configured store and applies the schema.
func openBackends(ctx context.Context, cfg config.App) (*backends, error) {
	b := &backends{health: map[string]handler.HealthChecker{}}
	switch cfg.StoreBackend {
	case "memory":
		log.Println("using in-memory store, data is lost on restart")
		b.users = users.NewMemoryStore()
		b.attendance = attendance.NewMemoryStore()
	case "postgres", "":
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if err := store.Migrate(ctx, db.Client); err != nil {
			b.Close()
			return nil, err
		}
		b.users = users.NewRepository(db.Client)
		b.attendance = attendance.NewRepository(db.Client)
		b.health["db"] = db
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return b, nil
}

func newLimiters(cfg config.App, b *backends) (httpmiddleware.Limiter, httpmiddleware.Limiter) {
	if cfg.RateLimitBackend == "redis" {
		redisClient := store.NewRedis(cfg.RedisAddr)
		b.closers = append(b.closers, redisClient.Close)
		b.health["redis"] = redisClient
		return httpmiddleware.NewRedisWindow(redisClient.Client, "attendance:ratelimit", cfg.RateLimitPerMin),
			httpmiddleware.NewRedisWindow(redisClient.Client, "attendance:login", cfg.LoginRateLimit)
	}
	return httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin),
		httpmiddleware.NewSimpleTokenBucket(cfg.LoginRateLimit, cfg.LoginRateLimit)
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	hasher := auth.NewHasher(cfg.BcryptCost)
	admin := auth.AdminAccount{
		Username: cfg.Bootstrap.Username,
		Email:    cfg.Bootstrap.Email,
		FullName: cfg.Bootstrap.FullName,
	}
	if _, err := auth.Bootstrap(ctx, b.users, hasher, admin, nil); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.AccessTTL)
	authenticator := auth.NewAuthenticator(b.users, hasher, tokens)
	svc := attendance.NewService(b.attendance)

	limiter, loginLimiter := newLimiters(cfg, b)
	h := handler.New(authenticator, svc, metrics.New(), cfg.HideInternalErrors)
	r := handler.NewRouter(h, handler.RouterConfig{
		Tokens:       tokens,
		Limiter:      limiter,
		LoginLimiter: loginLimiter,
		AllowOrigins: cfg.CORSAllowOrigins,
		Health:       b.health,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
