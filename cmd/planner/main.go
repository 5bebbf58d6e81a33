// Command planner builds a weekly workout routine from an input document.
//
//	planner plan [-config input_data.json] [-out weekly_routine.pdf] [-format pdf] [-videos pool.json]
//	planner validate [-config input_data.json]
//	planner keygen <userID>
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arnavshah/workout-scheduler-go/pkg/auth"
	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
	"github.com/arnavshah/workout-scheduler-go/pkg/pipeline"
	"github.com/arnavshah/workout-scheduler-go/pkg/render"
	"github.com/arnavshah/workout-scheduler-go/pkg/youtube"
)

const usage = `usage:
  planner plan [-config input_data.json] [-out weekly_routine.pdf] [-format pdf|html|csv|json] [-videos pool.json]
  planner validate [-config input_data.json]
  planner keygen <userID>`

func main() {
	config.LoadDotEnv()
	settings := config.LoadSettings()
	logging.Init(logging.Config{Level: settings.LogLevel, Format: "console"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], settings, os.Stdout); err != nil {
		logging.Error().Err(err).Msg("planner failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, settings config.Settings, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "plan":
		return runPlan(ctx, args[1:], settings, stdout)
	case "validate":
		return runValidate(args[1:], stdout)
	case "keygen":
		return runKeygen(args[1:], settings, stdout)
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}

func runPlan(ctx context.Context, args []string, settings config.Settings, stdout io.Writer) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	cfgPath := fs.String("config", config.DefaultInputPath, "input document (json or yaml)")
	out := fs.String("out", "weekly_routine.pdf", "output file")
	format := fs.String("format", "", "output format; defaults to the extension of -out")
	videosPath := fs.String("videos", "", "JSON file with a candidate video pool; skips fetching")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	name := *format
	if name == "" {
		name = *out
	}
	renderer, err := render.ForFormat(name)
	if err != nil {
		return err
	}

	var res *pipeline.Result
	if *videosPath != "" {
		pool, err := loadVideos(*videosPath)
		if err != nil {
			return err
		}
		res, err = pipeline.RunWithPool(cfg, pool)
		if err != nil {
			return err
		}
	} else {
		if settings.YouTubeAPIKey == "" {
			return errors.New("YOUTUBE_API_KEY is not set; pass -videos to plan from a local pool")
		}
		res, err = pipeline.Run(ctx, cfg, youtube.NewClient(settings.YouTubeAPIKey))
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, res.Schedule); err != nil {
		return fmt.Errorf("rendering %s: %w", *out, err)
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(stdout, "warning:", w)
	}
	fmt.Fprintf(stdout, "%s: %d videos, %.1f min over %d days (balance %.0f%%)\n",
		*out, res.Stats.Scheduled, res.Stats.TotalMinutes, len(res.Plan.Days), res.Stats.BalanceScore)
	return nil
}

func runValidate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	cfgPath := fs.String("config", config.DefaultInputPath, "input document (json or yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s is valid: %d channels, %d categories\n",
		*cfgPath, len(cfg.IncludedChannels()), len(cfg.IncludedCategories()))
	return nil
}

func runKeygen(args []string, settings config.Settings, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: planner keygen <userID>")
	}
	if settings.APIMasterSecret == "" {
		return errors.New("API_MASTER_SECRET not set")
	}

	userID := args[0]
	key := auth.NewService(settings.JWTSecret, settings.APIMasterSecret).GenerateHMACKey(userID)
	fmt.Fprintf(stdout, "Generated Key for %s:\n%s\n", userID, key)
	return nil
}

func loadVideos(path string) ([]models.Video, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading videos %s: %w", path, err)
	}
	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decoding videos %s: %w", path, err)
	}
	return videos, nil
}
