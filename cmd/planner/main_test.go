package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/workout-scheduler-go/pkg/auth"
	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

const inputYAML = `
youtube_channels:
  - channel_id: UC1
    channel_name: One
    include: true
rest_days:
  Sunday: true
exercise_categories:
  - category_name: Cardio
    keywords: [cardio]
    include: true
    daily: true
  - category_name: Stretch
    keywords: [stretch]
    include: true
excluded_keywords: [shorts]
daily_video_schedule:
  min_duration_minutes: 10
  max_duration_minutes: 30
  min_videos_per_day: 1
  max_videos_per_day: 2
additional_settings:
  show_duration: true
  show_thumbnail: false
`

func writeInputs(t *testing.T) (dir, cfgPath, videosPath string) {
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "input.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(inputYAML), 0o644))

	var videos []models.Video
	for i, title := range []string{"Cardio 1", "Cardio 2", "Stretch 1", "Stretch 2", "Cardio Shorts"} {
		videos = append(videos, models.Video{ID: string(rune('a' + i)), Title: title, DurationMinutes: float64(8 + i), Link: "https://www.youtube.com/watch?v=" + string(rune('a'+i))})
	}
	data, err := json.Marshal(videos)
	require.NoError(t, err)
	videosPath = filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(videosPath, data, 0o644))
	return dir, cfgPath, videosPath
}

func TestPlanWritesArtifact(t *testing.T) {
	dir, cfgPath, videosPath := writeInputs(t)
	out := filepath.Join(dir, "routine.csv")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"plan", "-config", cfgPath, "-videos", videosPath, "-out", out}, config.Settings{}, &stdout)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "day,position,title"))
	assert.NotContains(t, string(data), "Cardio Shorts")
	assert.Contains(t, stdout.String(), "routine.csv: ")
}

func TestPlanFormatOverridesExtension(t *testing.T) {
	dir, cfgPath, videosPath := writeInputs(t)
	out := filepath.Join(dir, "routine.out")

	err := run(context.Background(), []string{"plan", "-config", cfgPath, "-videos", videosPath, "-out", out, "-format", "pdf"}, config.Settings{}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPlanRejectsNegativeDurationPool(t *testing.T) {
	dir, cfgPath, _ := writeInputs(t)
	poolPath := filepath.Join(dir, "bad_pool.json")
	require.NoError(t, os.WriteFile(poolPath, []byte(`[
		{"id": "neg", "title": "Cardio Negative", "duration_minutes": -500},
		{"id": "huge", "title": "Cardio Huge", "duration_minutes": 300}
	]`), 0o644))
	out := filepath.Join(dir, "routine.csv")

	err := run(context.Background(), []string{"plan", "-config", cfgPath, "-videos", poolPath, "-out", out}, config.Settings{}, &bytes.Buffer{})
	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "videos[0].duration_minutes", cfgErr.Field)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPlanWithoutVideoSource(t *testing.T) {
	_, cfgPath, _ := writeInputs(t)
	err := run(context.Background(), []string{"plan", "-config", cfgPath}, config.Settings{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "YOUTUBE_API_KEY")
}

func TestValidateReportsConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"youtube_channels": []}`), 0o644))

	err := run(context.Background(), []string{"validate", "-config", path}, config.Settings{}, &bytes.Buffer{})
	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "youtube_channels", cfgErr.Field)

	_, cfgPath, _ := writeInputs(t)
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"validate", "-config", cfgPath}, config.Settings{}, &stdout))
	assert.Contains(t, stdout.String(), "is valid: 1 channels, 2 categories")
}

func TestKeygen(t *testing.T) {
	var stdout bytes.Buffer
	settings := config.Settings{APIMasterSecret: "master"}
	require.NoError(t, run(context.Background(), []string{"keygen", "studio"}, settings, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	userID, err := auth.NewService("", "master").VerifyHMACKey(lines[1])
	require.NoError(t, err)
	assert.Equal(t, "studio", userID)

	assert.Error(t, run(context.Background(), []string{"keygen", "studio"}, config.Settings{}, &bytes.Buffer{}))
}

func TestUnknownCommand(t *testing.T) {
	assert.Error(t, run(context.Background(), nil, config.Settings{}, &bytes.Buffer{}))
	assert.ErrorContains(t, run(context.Background(), []string{"serve"}, config.Settings{}, &bytes.Buffer{}), "unknown command")
}
