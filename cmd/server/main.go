package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/demce01/plazhi-sub000/internal/config"
	"github.com/demce01/plazhi-sub000/internal/database"
	"github.com/demce01/plazhi-sub000/internal/database/migrations"
	"github.com/demce01/plazhi-sub000/internal/handler"
	"github.com/demce01/plazhi-sub000/internal/logger"
	appmw "github.com/demce01/plazhi-sub000/internal/middleware"
	"github.com/demce01/plazhi-sub000/internal/queue"
	"github.com/demce01/plazhi-sub000/internal/repository"
	"github.com/demce01/plazhi-sub000/internal/router"
	"github.com/demce01/plazhi-sub000/internal/selection"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := migrations.Run(ctx, db); err != nil {
		cancel()
		log.Fatal("migrations failed", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient() // nil when redis is unreachable; limiter and cache degrade gracefully

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	clientRepo := repository.NewClientRepo(db)
	beachRepo := repository.NewBeachRepo(db)
	zoneRepo := repository.NewZoneRepo(db)
	setRepo := repository.NewSetRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	selections := selection.NewManager(time.Duration(cfg.SelectionTTL) * time.Minute)
	defer selections.Stop()

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo, clientRepo)
	publicHandler := handler.NewPublicHandler(beachRepo, zoneRepo, setRepo)
	selectionHandler := handler.NewSelectionHandler(selections, beachRepo, setRepo)
	guestHandler := handler.NewGuestHandler(reservationRepo, beachRepo, selections)
	clientHandler := handler.NewClientHandler(clientRepo, reservationRepo, beachRepo, selections)
	staffHandler := handler.NewStaffHandler(reservationRepo, beachRepo, clientRepo)
	adminHandler := handler.NewAdminHandler(beachRepo, zoneRepo, setRepo, userRepo, clientRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, selectionHandler, guestHandler, cacheMW)
	router.RegisterClient(e, clientHandler, cfg.JWTSecret)
	router.RegisterStaff(e, staffHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// Background consumer keeps its own reconnect loop; it never takes the
	// API down when the broker is away.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Warn("reservation consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
