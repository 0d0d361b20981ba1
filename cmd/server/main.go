package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/parintorn/table-reservation/internal/config"
	"github.com/parintorn/table-reservation/internal/database"
	"github.com/parintorn/table-reservation/internal/handler"
	appmw "github.com/parintorn/table-reservation/internal/middleware"
	"github.com/parintorn/table-reservation/internal/queue"
	"github.com/parintorn/table-reservation/internal/repository"
	"github.com/parintorn/table-reservation/internal/router"
	"github.com/parintorn/table-reservation/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	events := queue.NewPublisher(cfg.AMQPURL)
	go queue.StartConsumer(cfg.AMQPURL)

	users := repository.NewUserRepo(db)
	restaurants := repository.NewRestaurantRepo(db)
	reservations := repository.NewReservationRepo(db)
	workflow := service.NewReservationService(reservations, restaurants)

	authHandler := handler.NewAuthHandler(cfg, users)
	restaurantHandler := handler.NewRestaurantHandler(restaurants, events)
	reservationHandler := handler.NewReservationHandler(workflow, events)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, authHandler, restaurantHandler, reservationHandler, cfg.JWTSecret, cacheMW)

	go func() {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
}
