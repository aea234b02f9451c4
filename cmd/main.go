package main

import (
	"github.com/SoarAway/donki-wonki/config"
	"github.com/SoarAway/donki-wonki/controllers"
	"github.com/SoarAway/donki-wonki/logger"
	"github.com/SoarAway/donki-wonki/routes"
	"github.com/SoarAway/donki-wonki/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, FilePath: cfg.LogFile})

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database startup failed")
	}

	store := services.NewGormStore(db)

	gateway, err := services.NewPushService(cfg.AWSRegion, cfg.SNSPlatformARN)
	if err != nil {
		logger.Fatal().Err(err).Msg("push gateway startup failed")
	}

	hub := services.NewRealtimeHub()
	userService := services.NewUserService(store, gateway)
	routeService := services.NewRouteService(store, cfg.Location)
	alertService := services.NewAlertService(store, store, gateway, hub, cfg.Location)
	reportService := services.NewReportService(db)

	r := routes.SetupRouter(routes.Controllers{
		Users:    controllers.NewUserController(userService),
		Routes:   controllers.NewRouteController(routeService),
		Alerts:   controllers.NewAlertController(alertService),
		Reports:  controllers.NewReportController(reportService),
		Realtime: controllers.NewRealtimeController(hub),
	})

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
