package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/seatlotto/seat-lottery/internal/config"
	"github.com/seatlotto/seat-lottery/internal/database"
	"github.com/seatlotto/seat-lottery/internal/handler"
	"github.com/seatlotto/seat-lottery/internal/middleware"
	"github.com/seatlotto/seat-lottery/internal/queue"
	"github.com/seatlotto/seat-lottery/internal/repository"
	"github.com/seatlotto/seat-lottery/internal/router"
	"github.com/seatlotto/seat-lottery/internal/service"
)

func main() {
	// .env is a convenience for local runs; deployed environments set real
	// environment variables and have no .env file.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the response cache, rate limiting, OTPs and payment
	// intents.  A nil client degrades all four gracefully.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	games := repository.NewGameRepo(db)
	seats := repository.NewSeatRepo(db)
	requests := repository.NewRequestRepo(db)

	payments := service.NewPaymentService(rdb)
	otp := service.NewOTPService(rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens, otp)
	userGameH := handler.NewUserGameHandler(games, seats, requests)
	adminGameH := handler.NewAdminGameHandler(cfg, games, seats, requests)
	bookingH := handler.NewBookingHandler(games, seats, requests, users, payments)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUser(e, cfg.JWTSecret, authH, userGameH, bookingH, cache)
	router.RegisterAdmin(e, cfg.JWTSecret, authH, adminGameH)

	// Uploaded game images are served straight from disk.
	e.Static("/uploads", cfg.UploadDir)

	// Booking and winner events are consumed in-process and appended to
	// logs/events.log.  The consumer reconnects on its own.
	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
