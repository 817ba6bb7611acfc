package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-shelving/internal/config"
	"github.com/iliyamo/library-shelving/internal/database"
	"github.com/iliyamo/library-shelving/internal/handler"
	"github.com/iliyamo/library-shelving/internal/middleware"
	"github.com/iliyamo/library-shelving/internal/queue"
	"github.com/iliyamo/library-shelving/internal/repository"
	"github.com/iliyamo/library-shelving/internal/router"
	"github.com/iliyamo/library-shelving/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	// One-time backfill of location groups for data written before
	// groups existed.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Normalize(ctx); err != nil {
		log.Fatalf("store normalize failed: %v", err)
	}
	cancel()

	// Background consumer that appends activity events to logs/shelving.log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	h := handler.NewShelvingHandler(st)

	// Redis is optional; with no client both middlewares pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiter disabled")
	}
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, h, rl, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore builds the record store named by STORE_DRIVER. The mysql
// driver also creates missing tables and seeds the section catalog.
func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		repo := repository.New(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return store.Open(cfg.DataFile)
	}
}
