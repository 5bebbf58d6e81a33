package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/handlers"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
)

func main() {
	config.LoadDotEnv()
	settings := config.LoadSettings()
	logging.Init(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})

	if settings.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	h, err := handlers.New(settings)
	if err != nil {
		logging.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	r := gin.Default()
	h.Register(r, "Workout Scheduler API")

	logging.Info().Str("port", settings.Port).Msg("server starting")
	if err := r.Run(":" + settings.Port); err != nil {
		logging.Error().Err(err).Msg("could not run server")
		os.Exit(1)
	}
}
