package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"repairdesk/internal/cache"
	"repairdesk/internal/config"
	"repairdesk/internal/domain"
	"repairdesk/internal/httpapi"
	"repairdesk/internal/service"
	"repairdesk/internal/store"
	"repairdesk/internal/store/memory"
	pgstore "repairdesk/internal/store/postgres"
	"repairdesk/internal/telemetry"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	if !cfg.AuthEnabled() {
		log.Println("WARNING: AUTH_SECRET is not set; ticket routes are open and tokens are signed with a per-process key")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracing := telemetry.Setup(ctx, "repairdesk-server")

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("postgres schema: %v", err)
		}
		if err := seedStaff(ctx, pg); err != nil {
			log.Printf("seed staff: %v", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	ticketCache := cache.TicketCache(cache.NoopTicketCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisTicketCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			ticketCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	svc := service.New(repo, ticketCache, time.Duration(cfg.TicketCacheTTLSeconds)*time.Second)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, cfg.AuthEnabled())

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           otelhttp.NewHandler(api.Handler(), "repairdesk"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("repair desk backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown error: %v", err)
	}

	log.Println("server stopped")
}

// validateSecurityConfig only checks the secret when one is configured; an
// empty AUTH_SECRET runs the ticket routes without login.
func validateSecurityConfig(cfg config.Config) error {
	if cfg.AuthSecret != "" && len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}
	return nil
}

// seedStaff creates the first admin account on an empty database. The
// password is stored as given; the auth manager rehashes it with bcrypt on
// start-up.
func seedStaff(ctx context.Context, repo store.Repository) error {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	password := strings.TrimSpace(os.Getenv("SEED_ADMIN_PASSWORD"))
	if password == "" {
		log.Println("WARNING: no staff accounts and SEED_ADMIN_PASSWORD is not set; staff login is unavailable")
		return nil
	}
	return repo.CreateUser(ctx, domain.StaffAccount{
		Username:  "admin",
		Password:  password,
		Role:      domain.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
}
