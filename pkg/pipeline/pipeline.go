// Package pipeline runs one planning pass: fetch, classify, plan, assemble.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arnavshah/workout-scheduler-go/pkg/assembler"
	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/matcher"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
	"github.com/arnavshah/workout-scheduler-go/pkg/scheduler"
	"github.com/arnavshah/workout-scheduler-go/pkg/youtube"
)

// maxConcurrentFetches bounds the channels fetched at once
const maxConcurrentFetches = 4

// Fetcher returns the candidate videos of one channel.
// It may return videos together with an error when the fetch partly failed; FetchAll
// drops them, so a failed channel contributes no candidates.
type Fetcher interface {
	FetchChannel(ctx context.Context, channelID string, spec youtube.SearchSpec) ([]models.Video, error)
}

// Result is the outcome of a planning run
type Result struct {
	Plan     models.WeekPlan
	Schedule *models.RenderableSchedule
	Warnings []models.Warning
	Stats    models.RunStats
}

// Run validates the input, fetches every included channel and plans the week
func Run(ctx context.Context, cfg *models.InputConfig, fetcher Fetcher) (*Result, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	pool, warnings := FetchAll(ctx, cfg, fetcher)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := plan(cfg, pool)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// RunWithPool plans the week from an already known candidate pool.
// The pool is validated like the input document.
func RunWithPool(cfg *models.InputConfig, pool []models.Video) (*Result, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := config.ValidateVideos(pool); err != nil {
		return nil, err
	}
	return plan(cfg, pool)
}

// FetchAll fetches the included channels concurrently and merges them in configured order.
// A failed or empty channel becomes a fetch warning and contributes no candidates.
func FetchAll(ctx context.Context, cfg *models.InputConfig, fetcher Fetcher) ([]models.Video, []models.Warning) {
	channels := cfg.IncludedChannels()
	spec := youtube.SpecFromConfig(cfg)

	results := make([][]models.Video, len(channels))
	errs := make([]error, len(channels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			results[i], errs[i] = fetcher.FetchChannel(gctx, ch.ID, spec)
			return nil
		})
	}
	_ = g.Wait()

	var (
		pool     []models.Video
		warnings []models.Warning
	)
	for i, ch := range channels {
		switch {
		case errs[i] != nil:
			warnings = append(warnings, fetchWarning(ch, fmt.Sprintf("fetch failed: %v", errs[i])))
			continue
		case len(results[i]) == 0:
			warnings = append(warnings, fetchWarning(ch, "no videos returned"))
		}
		pool = append(pool, results[i]...)
	}
	return pool, warnings
}

func fetchWarning(ch models.Channel, msg string) models.Warning {
	w := models.Warning{Kind: models.WarningFetch, Channel: ch.ID, Message: msg}
	logging.Warn().Str("channel", ch.ID).Str("name", ch.Name).Msg(msg)
	return w
}

// Dedupe drops repeated video IDs, keeping the first occurrence
func Dedupe(videos []models.Video) []models.Video {
	seen := make(map[string]bool, len(videos))
	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		out = append(out, v)
	}
	return out
}

func plan(cfg *models.InputConfig, pool []models.Video) (*Result, error) {
	unique := Dedupe(pool)
	logging.Info().Int("fetched", len(pool)).Int("unique", len(unique)).Msg("candidate pool ready")

	eligibility := matcher.Classify(unique, cfg.Categories, cfg.ExcludedKeywords)
	for name, n := range eligibility.Counts() {
		logging.Info().Str("category", name).Int("eligible", n).Msg("classified")
	}

	week, warnings := scheduler.PlanWeek(models.WeekDays, cfg.RestDays, eligibility, *cfg.Schedule)
	for _, w := range warnings {
		logging.Warn().Str("kind", string(w.Kind)).Str("day", w.Day).Str("category", w.Category).Msg(w.Message)
	}

	schedule, err := assembler.Assemble(week, cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("assembling schedule: %w", err)
	}

	return &Result{
		Plan:     week,
		Schedule: schedule,
		Warnings: warnings,
		Stats: models.RunStats{
			Fetched:      len(pool),
			Unique:       len(unique),
			Eligible:     eligibility.Counts(),
			Scheduled:    week.VideoCount(),
			TotalMinutes: week.TotalMinutes(),
			BalanceScore: scheduler.BalanceScore(week),
		},
	}, nil
}
