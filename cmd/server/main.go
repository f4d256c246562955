package main

import (
    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/nexis-travel/bookit-server/internal/config"
    "github.com/nexis-travel/bookit-server/internal/database"
    "github.com/nexis-travel/bookit-server/internal/handler"
    "github.com/nexis-travel/bookit-server/internal/logger"
    "github.com/nexis-travel/bookit-server/internal/middleware"
    "github.com/nexis-travel/bookit-server/internal/queue"
    "github.com/nexis-travel/bookit-server/internal/repository"
    "github.com/nexis-travel/bookit-server/internal/router"
    "github.com/nexis-travel/bookit-server/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    logger.Init(cfg.Env)

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        logger.Fatal("database open failed", "error", err)
    }
    defer db.Close()

    // Redis is optional: without it the cache and limiter become no-ops.
    rdb := config.NewRedisClient()

    experiences := repository.NewExperienceRepo(db)
    promos := repository.NewPromoRepo(db)
    users := repository.NewUserRepo(db)
    bookings := repository.NewBookingRepo(db)
    tokens := repository.NewTokenRepo(db)

    publisher := &service.AMQPPublisher{URL: cfg.BrokerURL}
    bookingSvc := service.NewBookingService(db, experiences, promos, users, bookings, publisher)

    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            logger.Warn("booking consumer stopped", "error", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestID())

    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
    router.RegisterPublic(e, handler.NewBrowseHandler(experiences), cache)
    router.RegisterBooking(e, handler.NewBookingHandler(bookingSvc), handler.NewPromoHandler(promos), limit)
    router.RegisterOperator(e, handler.NewOperatorHandler(experiences, bookings),
        handler.NewPromoAdminHandler(promos), cfg.JWTSecret)

    addr := ":" + cfg.Port
    logger.Info("listening", "addr", addr, "env", cfg.Env)
    if err := e.Start(addr); err != nil {
        logger.Fatal("server stopped", "error", err)
    }
}
