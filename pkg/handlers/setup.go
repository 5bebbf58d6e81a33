package handlers

import (
	"github.com/arnavshah/workout-scheduler-go/pkg/auth"
	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/database"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/youtube"
)

// New opens the database, seeds the admin user and wires the YouTube fetcher when a key is set
func New(settings config.Settings) (*Handler, error) {
	db, err := database.InitDB(database.Options{
		DatabaseURL: settings.DatabaseURL,
		DataPath:    settings.DataPath,
	})
	if err != nil {
		return nil, err
	}

	svc := auth.NewService(settings.JWTSecret, settings.APIMasterSecret)
	if err := svc.EnsureAdminExists(db, settings.AdminUsername, settings.AdminPassword); err != nil {
		return nil, err
	}

	h := &Handler{DB: db, Auth: svc}
	if settings.YouTubeAPIKey != "" {
		h.Fetcher = youtube.NewClient(settings.YouTubeAPIKey)
	} else {
		logging.Warn().Msg("YOUTUBE_API_KEY not set; plan requests must supply their videos")
	}
	return h, nil
}
