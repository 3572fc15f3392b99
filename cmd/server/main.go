package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ecocollect/platform/internal/config"     // Internal config loader
	"github.com/ecocollect/platform/internal/database"   // MySQL connection pool
	"github.com/ecocollect/platform/internal/handler"    // HTTP handlers
	"github.com/ecocollect/platform/internal/middleware" // Session, cache and rate-limit middleware
	"github.com/ecocollect/platform/internal/queue"      // Background broker consumer
	"github.com/ecocollect/platform/internal/repository" // Data access layer
	"github.com/ecocollect/platform/internal/router"     // Route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	reports := repository.NewReportRepo(db)
	tasks := repository.NewTaskRepo(db)
	bins := repository.NewBinRepo(db)
	rewards := repository.NewRewardRepo(db)
	notifs := repository.NewNotificationRepo(db)
	messages := repository.NewMessageRepo(db)
	guide := repository.NewWasteGuideRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Citizen:   handler.NewCitizenHandler(reports, users, notifs, tasks),
		Collector: handler.NewCollectorHandler(tasks, reports, bins),
		Admin:     handler.NewAdminHandler(users, reports, tasks, bins, notifs, guide),
		Rewards:   handler.NewRewardsHandler(rewards, users, notifs),
		Shared:    handler.NewSharedHandler(notifs, messages, guide),
	}

	e := echo.New()
	// Rate limiting applies to every request; the response cache is scoped
	// to the catalog routes inside the router. Both fail open when Redis is
	// unavailable.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, cfg.SessionSecret, cache)

	// Consume report.resolved events in the background; the consumer
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartReportConsumer(); err != nil {
			log.Printf("report consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
