package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WeekDays is the fixed planning order of a week
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Channel represents a video channel that may contribute candidates
type Channel struct {
	ID      string `json:"channel_id" yaml:"channel_id" binding:"required"`
	Name    string `json:"channel_name,omitempty" yaml:"channel_name"`
	Include bool   `json:"include" yaml:"include"`
}

// ExerciseCategory groups videos by title keywords
type ExerciseCategory struct {
	Name     string   `json:"category_name" yaml:"category_name" binding:"required"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Include  bool     `json:"include" yaml:"include"`
	Daily    bool     `json:"daily" yaml:"daily"`
}

// Video is a candidate video returned by the catalog
type Video struct {
	ID              string  `json:"id" yaml:"id" binding:"required"`
	Title           string  `json:"title" yaml:"title"`
	DurationMinutes float64 `json:"duration_minutes" yaml:"duration_minutes" binding:"gte=0"`
	ChannelID       string  `json:"channel_id,omitempty" yaml:"channel_id"`
	Thumbnail       string  `json:"thumbnail,omitempty" yaml:"thumbnail"`
	Link            string  `json:"link" yaml:"link"`
}

// DayConstraints bound every workout day of the week
type DayConstraints struct {
	MinDurationMinutes float64 `json:"min_duration_minutes" yaml:"min_duration_minutes" binding:"gte=0"`
	MaxDurationMinutes float64 `json:"max_duration_minutes" yaml:"max_duration_minutes" binding:"gt=0"`
	MinVideosPerDay    int     `json:"min_videos_per_day" yaml:"min_videos_per_day" binding:"gte=0"`
	MaxVideosPerDay    int     `json:"max_videos_per_day" yaml:"max_videos_per_day" binding:"gte=1"`
}

// Settings controls what the rendered document shows
type Settings struct {
	ShowDuration  bool `json:"show_duration" yaml:"show_duration"`
	ShowThumbnail bool `json:"show_thumbnail" yaml:"show_thumbnail"`
}

// SearchOptions tunes the catalog query issued per channel and category
type SearchOptions struct {
	MaxResults    int    `json:"max_results,omitempty" yaml:"max_results" binding:"omitempty,gte=1,lte=50"`
	VideoDuration string `json:"video_duration,omitempty" yaml:"video_duration" binding:"omitempty,oneof=any short medium long"`
}

// InputConfig is the input document of one planning run
type InputConfig struct {
	Channels         []Channel          `json:"youtube_channels" yaml:"youtube_channels" binding:"required,min=1,dive"`
	RestDays         RestDays           `json:"rest_days" yaml:"rest_days"`
	Categories       []ExerciseCategory `json:"exercise_categories" yaml:"exercise_categories" binding:"required,min=1,dive"`
	ExcludedKeywords []string           `json:"excluded_keywords" yaml:"excluded_keywords"`
	Schedule         *DayConstraints    `json:"daily_video_schedule" yaml:"daily_video_schedule" binding:"required"`
	Settings         Settings           `json:"additional_settings" yaml:"additional_settings"`
	Search           SearchOptions      `json:"search,omitempty" yaml:"search"`
}

// IncludedChannels returns the channels that contribute candidates, in configured order
func (c *InputConfig) IncludedChannels() []Channel {
	var out []Channel
	for _, ch := range c.Channels {
		if ch.Include {
			out = append(out, ch)
		}
	}
	return out
}

// IncludedCategories returns the categories taking part in classification, in configured order
func (c *InputConfig) IncludedCategories() []ExerciseCategory {
	var out []ExerciseCategory
	for _, cat := range c.Categories {
		if cat.Include {
			out = append(out, cat)
		}
	}
	return out
}

// RestDays is the set of day names that never get videos.
// It decodes from either a list of names or a {"Sunday": true} map.
type RestDays []string

// Contains reports whether day is a rest day, ignoring case
func (r RestDays) Contains(day string) bool {
	for _, d := range r {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts both the list and the map form
func (r *RestDays) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var flags map[string]bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return fmt.Errorf("rest_days must be a list of day names or a map of day to bool")
	}
	*r = restDaysFromMap(flags)
	return nil
}

// UnmarshalYAML accepts both the list and the map form
func (r *RestDays) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*r = list
		return nil
	}
	var flags map[string]bool
	if err := unmarshal(&flags); err != nil {
		return fmt.Errorf("rest_days must be a list of day names or a map of day to bool")
	}
	*r = restDaysFromMap(flags)
	return nil
}

func restDaysFromMap(flags map[string]bool) RestDays {
	days := RestDays{}
	for _, day := range WeekDays {
		for name, rest := range flags {
			if rest && strings.EqualFold(name, day) {
				days = append(days, day)
				break
			}
		}
	}
	// keep unknown names so validation can report them
	for name, rest := range flags {
		if rest && !IsWeekDay(name) {
			days = append(days, name)
		}
	}
	return days
}

// IsWeekDay reports whether name is one of WeekDays, ignoring case
func IsWeekDay(name string) bool {
	for _, d := range WeekDays {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// DaySlot is one day of a week plan. A rest day has Rest set and no videos.
type DaySlot struct {
	Day          string  `json:"day"`
	Rest         bool    `json:"rest"`
	Videos       []Video `json:"videos"`
	TotalMinutes float64 `json:"total_duration_minutes"`
}

// WeekPlan is the ordered Monday..Sunday result of planning
type WeekPlan struct {
	Days []DaySlot `json:"days"`
}

// Day returns the slot for the named day
func (p *WeekPlan) Day(name string) (*DaySlot, bool) {
	for i := range p.Days {
		if strings.EqualFold(p.Days[i].Day, name) {
			return &p.Days[i], true
		}
	}
	return nil, false
}

// VideoCount returns the number of videos scheduled over the whole week
func (p *WeekPlan) VideoCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Videos)
	}
	return n
}

// TotalMinutes returns the scheduled duration of the whole week
func (p *WeekPlan) TotalMinutes() float64 {
	var total float64
	for _, d := range p.Days {
		total += d.TotalMinutes
	}
	return total
}

// WarningKind classifies a recoverable condition
type WarningKind string

const (
	WarningFetch     WarningKind = "fetch"
	WarningUnderfill WarningKind = "underfill"
	WarningCoverage  WarningKind = "coverage"
	WarningOverrun   WarningKind = "overrun"
)

// Warning is a recoverable condition recorded during a run
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Day      string      `json:"day,omitempty"`
	Channel  string      `json:"channel,omitempty"`
	Category string      `json:"category,omitempty"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	scope := w.Day
	if scope == "" {
		scope = w.Channel
	}
	if scope == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Kind, scope, w.Message)
}

// VideoRecord is a render-ready video line
type VideoRecord struct {
	Title           string   `json:"title"`
	Link            string   `json:"link"`
	Thumbnail       string   `json:"thumbnail,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
}

// RenderDay is a render-ready day
type RenderDay struct {
	Day          string        `json:"day"`
	Rest         bool          `json:"rest"`
	Videos       []VideoRecord `json:"videos"`
	TotalMinutes *float64      `json:"total_duration_minutes,omitempty"`
}

// RenderableSchedule is what document renderers consume
type RenderableSchedule struct {
	Days          []RenderDay `json:"days"`
	TotalMinutes  *float64    `json:"total_duration_minutes,omitempty"`
	ShowDuration  bool        `json:"show_duration"`
	ShowThumbnail bool        `json:"show_thumbnail"`
}

// PlanRequest is the body of the planning endpoints.
// When Videos is set it is used as the candidate pool instead of fetching.
type PlanRequest struct {
	Config InputConfig `json:"config"`
	Videos []Video     `json:"videos,omitempty" binding:"omitempty,dive"`
}

// RunStats summarizes the pool at each pipeline stage
type RunStats struct {
	Fetched      int            `json:"fetched"`
	Unique       int            `json:"unique"`
	Eligible     map[string]int `json:"eligible"`
	Scheduled    int            `json:"scheduled"`
	TotalMinutes float64        `json:"total_duration_minutes"`
	BalanceScore float64        `json:"balance_score"`
}

// PlanResponse is the result of the planning endpoint
type PlanResponse struct {
	ID       string              `json:"id"`
	Schedule *RenderableSchedule `json:"schedule"`
	Plan     *WeekPlan           `json:"plan"`
	Warnings []Warning           `json:"warnings"`
	Stats    RunStats            `json:"stats"`
}
