package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/handlers"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
)

var (
	r       *gin.Engine
	initErr error
)

func init() {
	config.LoadDotEnv()
	settings := config.LoadSettings()
	logging.Init(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	h, err := handlers.New(settings)
	if err != nil {
		initErr = err
		logging.Error().Err(err).Msg("startup failed")
		return
	}
	h.Register(r, "Workout Scheduler API (serverless)")
}

// Handler is the entry point for the Vercel Go runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}
