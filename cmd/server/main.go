package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Chintaro05/Cinebook-sub000/internal/config"
	"github.com/Chintaro05/Cinebook-sub000/internal/database"
	"github.com/Chintaro05/Cinebook-sub000/internal/handler"
	"github.com/Chintaro05/Cinebook-sub000/internal/middleware"
	"github.com/Chintaro05/Cinebook-sub000/internal/queue"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
	"github.com/Chintaro05/Cinebook-sub000/internal/router"
	"github.com/Chintaro05/Cinebook-sub000/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	// Repositories
	movies := repository.NewMovieRepo(db)
	screens := repository.NewScreenRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)
	history := repository.NewRefundHistoryRepo(db)
	payments := repository.NewPaymentRepo(db, history)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	// Services
	notifier := service.NewAMQPNotifier("")
	availability := service.NewAvailabilityIndex(bookings)
	paymentSvc := service.NewPaymentService(payments, history, users, notifier)
	bookingSvc := service.NewBookingService(service.Catalog{
		Movies:    movies,
		Screens:   screens,
		Showtimes: showtimes,
	}, bookings, paymentSvc, users, availability, notifier)

	// Notification consumer drains the broker into the local log. It
	// reconnects on its own, so a startup failure is not fatal.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(movies, screens, showtimes, availability), cache)
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc), cfg.JWTSecret)
	router.RegisterAdmin(e, router.AdminHandlers{
		Movies:    handler.NewAdminMovieHandler(movies),
		Screens:   handler.NewAdminScreenHandler(screens),
		Showtimes: handler.NewAdminShowtimeHandler(movies, screens, showtimes),
		Refunds:   handler.NewAdminRefundHandler(paymentSvc, bookings),
		Bookings:  handler.NewAdminBookingHandler(bookings, showtimes),
		Reports:   handler.NewAdminReportHandler(bookings),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
