package main

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	_ "cheesemarket/docs" // swagger docs

	"cheesemarket/internal/cache"
	"cheesemarket/internal/config"
	"cheesemarket/internal/db"
	"cheesemarket/internal/handler"
	"cheesemarket/internal/logger"
	"cheesemarket/internal/model"
	"cheesemarket/internal/repository"
	"cheesemarket/internal/router"
	"cheesemarket/internal/security"
	"cheesemarket/internal/service"
)

// @title Cheese Market API
// @version 1.0
// @description Cheese listing marketplace with session authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.CheeseListing{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis init")
	}
	sessions := security.NewRedisSessionStore(cacheClient)

	userRepo := repository.NewUserRepository(gormDB)
	cheeseRepo := repository.NewCheeseListingRepository(gormDB)

	authService := service.NewAuthService(userRepo, sessions, cfg.SessionTTL)
	userService := service.NewUserService(userRepo)
	cheeseService := service.NewCheeseListingService(cheeseRepo)

	authHandler := handler.NewAuthHandler(authService, cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure)
	userHandler := handler.NewUserHandler(userService)
	cheeseHandler := handler.NewCheeseHandler(cheeseService)

	e := echo.New()
	router.Register(e, cfg, sessions, authHandler, userHandler, cheeseHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
