package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
	"github.com/arnavshah/workout-scheduler-go/pkg/youtube"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    []string
	videos   map[string][]models.Video
	failures map[string]error
}

func (f *fakeFetcher) FetchChannel(_ context.Context, channelID string, _ youtube.SearchSpec) ([]models.Video, error) {
	f.mu.Lock()
	f.calls = append(f.calls, channelID)
	f.mu.Unlock()
	return f.videos[channelID], f.failures[channelID]
}

func v(id, title string, minutes float64) models.Video {
	return models.Video{ID: id, Title: title, DurationMinutes: minutes, Link: "https://www.youtube.com/watch?v=" + id}
}

func testConfig() *models.InputConfig {
	return &models.InputConfig{
		Channels: []models.Channel{
			{ID: "UC1", Name: "One", Include: true},
			{ID: "UC2", Name: "Two", Include: true},
			{ID: "UC3", Name: "Skipped", Include: false},
			{ID: "UC4", Name: "Broken", Include: true},
		},
		RestDays: models.RestDays{"Sunday"},
		Categories: []models.ExerciseCategory{
			{Name: "Cardio", Keywords: []string{"cardio"}, Include: true, Daily: true},
			{Name: "Strength", Keywords: []string{"strength"}, Include: true},
		},
		ExcludedKeywords: []string{"shorts"},
		Schedule:         &models.DayConstraints{MinDurationMinutes: 20, MaxDurationMinutes: 45, MinVideosPerDay: 1, MaxVideosPerDay: 3},
		Settings:         models.Settings{ShowDuration: true},
	}
}

func testFetcher() *fakeFetcher {
	return &fakeFetcher{
		videos: map[string][]models.Video{
			"UC1": {v("a", "Cardio Dance", 20), v("b", "Strength Upper", 25), v("x", "Cardio Shorts", 1)},
			"UC2": {v("a", "Cardio Dance", 20), v("c", "Cardio Kick", 15), v("d", "Strength Lower", 30)},
		},
		failures: map[string]error{"UC4": errors.New("quota exceeded")},
	}
}

func TestRun(t *testing.T) {
	f := testFetcher()
	res, err := Run(context.Background(), testConfig(), f)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"UC1", "UC2", "UC4"}, f.calls)
	assert.Equal(t, 6, res.Stats.Fetched)
	assert.Equal(t, 5, res.Stats.Unique)
	assert.Equal(t, map[string]int{"Cardio": 2, "Strength": 2}, res.Stats.Eligible)

	require.Len(t, res.Plan.Days, 7)
	monday, _ := res.Plan.Day("Monday")
	var ids []string
	for _, vid := range monday.Videos {
		ids = append(ids, vid.ID)
	}
	assert.Equal(t, []string{"c", "a"}, ids)

	for _, d := range res.Plan.Days {
		for _, vid := range d.Videos {
			assert.NotEqual(t, "x", vid.ID, "excluded video scheduled on %s", d.Day)
		}
	}

	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, models.WarningFetch, res.Warnings[0].Kind)
	assert.Equal(t, "UC4", res.Warnings[0].Channel)

	require.NotNil(t, res.Schedule.TotalMinutes)
	assert.Equal(t, res.Stats.TotalMinutes, *res.Schedule.TotalMinutes)
	assert.Equal(t, 90.0, res.Stats.TotalMinutes)
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := Run(context.Background(), testConfig(), testFetcher())
	require.NoError(t, err)
	second, err := Run(context.Background(), testConfig(), testFetcher())
	require.NoError(t, err)

	assert.Equal(t, first.Plan, second.Plan)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestRunConfigErrorStopsBeforeFetch(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule.MinDurationMinutes = 90

	f := testFetcher()
	_, err := Run(context.Background(), cfg, f)

	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Empty(t, f.calls)
}

func TestFetchAllEmptyChannelWarns(t *testing.T) {
	cfg := testConfig()
	f := &fakeFetcher{videos: map[string][]models.Video{"UC1": {v("a", "Cardio", 10)}}}

	pool, warnings := FetchAll(context.Background(), cfg, f)

	assert.Len(t, pool, 1)
	require.Len(t, warnings, 2)
	assert.Equal(t, "UC2", warnings[0].Channel)
	assert.Equal(t, "no videos returned", warnings[0].Message)
	assert.Equal(t, "UC4", warnings[1].Channel)
}

func TestFetchAllDropsFailedChannel(t *testing.T) {
	cfg := testConfig()
	f := &fakeFetcher{
		videos: map[string][]models.Video{
			"UC1": {v("a", "Cardio", 10)},
			"UC2": {v("b", "Strength", 10)},
		},
		failures: map[string]error{"UC2": errors.New("query \"strength\": quota exceeded")},
	}

	pool, warnings := FetchAll(context.Background(), cfg, f)

	require.Len(t, pool, 1)
	assert.Equal(t, "a", pool[0].ID)
	require.Len(t, warnings, 2)
	assert.Equal(t, "UC2", warnings[0].Channel)
	assert.Contains(t, warnings[0].Message, "quota exceeded")
}

func TestRunWithPool(t *testing.T) {
	cfg := testConfig()
	res, err := RunWithPool(cfg, []models.Video{v("a", "Cardio Dance", 20)})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.Scheduled)
	tuesday, _ := res.Plan.Day("Tuesday")
	assert.Empty(t, tuesday.Videos)

	var underfill int
	for _, w := range res.Warnings {
		if w.Kind == models.WarningUnderfill {
			underfill++
		}
	}
	assert.Equal(t, 5, underfill)
}

func TestRunWithPoolRejectsNegativeDuration(t *testing.T) {
	pool := []models.Video{v("neg", "Cardio Negative", -500), v("huge", "Cardio Huge", 300)}
	_, err := RunWithPool(testConfig(), pool)

	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "videos[0].duration_minutes", cerr.Field)
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]models.Video{v("a", "A", 1), v("", "no id", 1), v("a", "A again", 2), v("b", "B", 3)})
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "b", got[1].ID)
}
