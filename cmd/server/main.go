package main

import (
	"log"

	"github.com/miguel-sanchez/PomodoroPal/internal/config"
	"github.com/miguel-sanchez/PomodoroPal/internal/db"
	"github.com/miguel-sanchez/PomodoroPal/internal/handler"
	"github.com/miguel-sanchez/PomodoroPal/internal/repository"
	"github.com/miguel-sanchez/PomodoroPal/internal/router"
	"github.com/miguel-sanchez/PomodoroPal/internal/service"
)

func main() {
	cfg := config.Load()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	sessionService := service.NewSessionService(sessionRepo)

	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	engine := router.New(authService, authHandler, sessionHandler, cfg.CORSOrigins)
	log.Printf("session backend listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
