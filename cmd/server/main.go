package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/webpv/webpv-backend/internal/auth"
	"github.com/webpv/webpv-backend/internal/config"
	"github.com/webpv/webpv-backend/internal/database"
	"github.com/webpv/webpv-backend/internal/handler"
	"github.com/webpv/webpv-backend/internal/middleware"
	"github.com/webpv/webpv-backend/internal/queue"
	"github.com/webpv/webpv-backend/internal/repository"
	"github.com/webpv/webpv-backend/internal/route"
	"github.com/webpv/webpv-backend/internal/router"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg := config.Load()

	// Core database: users and refresh tokens.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("core database: %v", err)
	}

	// Legacy reporting database: read-only visit sheet queries.
	legacyDB, err := database.Open(cfg.LegacyDBUser, cfg.LegacyDBPass, cfg.LegacyDBHost, cfg.LegacyDBPort, cfg.LegacyDBName)
	if err != nil {
		log.Fatalf("legacy database: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	visits := repository.NewVisitRepo(legacyDB)

	// One limiter per process; the lockout window doubles as both the
	// trailing attempt window and the lock duration.
	lockout := time.Duration(cfg.LockoutMinutes) * time.Minute
	limiter := auth.NewLimiter(cfg.LockoutThreshold, lockout, lockout)

	authSvc := auth.NewService(users, tokens, limiter, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	planner := route.NewPlanner(visits)

	// Redis is optional: without it the edge rate limiter and the plan
	// cache degrade to pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	// Background consumer appending plan events to logs/routeplan.log.
	go func() {
		if err := queue.StartPlanConsumer(); err != nil {
			log.Printf("plan consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc), cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutePlan(e, handler.NewRouteHandler(planner), cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
