// Package config loads and validates the planner input document and process settings.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

const (
	DefaultInputPath     = "input_data.json"
	DefaultMaxResults    = 7
	DefaultVideoDuration = "long"
)

// ErrNoWorkoutDays is returned when every day of the week is a rest day
var ErrNoWorkoutDays = errors.New("no available days for scheduling")

// ConfigError is a fatal problem with the input document
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Load reads the input document at path. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
func Load(path string) (*models.InputConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input %s: %w", path, err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return Parse(data, format)
}

// Parse decodes, defaults and validates an input document
func Parse(data []byte, format string) (*models.InputConfig, error) {
	var cfg models.InputConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ConfigError{Reason: "malformed YAML: " + err.Error(), Err: err}
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil {
			return nil, &ConfigError{Reason: "malformed JSON: " + err.Error(), Err: err}
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate applies defaults and checks required fields and bounds
func Validate(cfg *models.InputConfig) error {
	ApplyDefaults(cfg)

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{Field: fieldPath(fe.Namespace()), Reason: describe(fe), Err: err}
		}
		return &ConfigError{Reason: err.Error(), Err: err}
	}

	s := cfg.Schedule
	if s.MinDurationMinutes > s.MaxDurationMinutes {
		return &ConfigError{
			Field:  "daily_video_schedule.min_duration_minutes",
			Reason: fmt.Sprintf("%.1f is greater than max_duration_minutes %.1f", s.MinDurationMinutes, s.MaxDurationMinutes),
		}
	}
	if s.MinVideosPerDay > s.MaxVideosPerDay {
		return &ConfigError{
			Field:  "daily_video_schedule.min_videos_per_day",
			Reason: fmt.Sprintf("%d is greater than max_videos_per_day %d", s.MinVideosPerDay, s.MaxVideosPerDay),
		}
	}

	for _, day := range cfg.RestDays {
		if !models.IsWeekDay(day) {
			return &ConfigError{Field: "rest_days", Reason: fmt.Sprintf("unknown day %q", day)}
		}
	}
	workoutDays := 0
	for _, day := range models.WeekDays {
		if !cfg.RestDays.Contains(day) {
			workoutDays++
		}
	}
	if workoutDays == 0 {
		return &ConfigError{Field: "rest_days", Reason: ErrNoWorkoutDays.Error(), Err: ErrNoWorkoutDays}
	}
	return nil
}

// ValidateVideos checks a candidate pool supplied by the caller instead of fetched
func ValidateVideos(videos []models.Video) error {
	for i := range videos {
		if err := validate.Struct(&videos[i]); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return &ConfigError{
					Field:  fmt.Sprintf("videos[%d].%s", i, fieldPath(fe.Namespace())),
					Reason: describe(fe),
					Err:    err,
				}
			}
			return &ConfigError{Field: fmt.Sprintf("videos[%d]", i), Reason: err.Error(), Err: err}
		}
	}
	return nil
}

// ApplyDefaults fills optional search settings
func ApplyDefaults(cfg *models.InputConfig) {
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Search.VideoDuration == "" {
		cfg.Search.VideoDuration = DefaultVideoDuration
	}
}

// fieldPath strips the root type name from a validator namespace
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entries"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
