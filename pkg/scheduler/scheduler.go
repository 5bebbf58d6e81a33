package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/matcher"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

// tolerance absorbs float error when comparing summed durations against the budget
const tolerance = 1e-9

// UsedSet holds the IDs of videos already assigned to some day of the week
type UsedSet map[string]bool

// Clone returns an independent copy of the set
func (u UsedSet) Clone() UsedSet {
	out := make(UsedSet, len(u))
	for id := range u {
		out[id] = true
	}
	return out
}

// candidate is a pooled video with the keys used for ordering
type candidate struct {
	video    models.Video
	category int // first category, in declaration order, the video is eligible for
	position int // first-seen position within that category
}

// Scheduler assigns eligible videos to the workout days of a week
type Scheduler struct {
	Eligibility matcher.Eligibility
	Constraints models.DayConstraints
	RestDays    models.RestDays
	Warnings    []models.Warning

	pool    []candidate
	members []map[string]bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(eligibility matcher.Eligibility, constraints models.DayConstraints, restDays models.RestDays) *Scheduler {
	s := &Scheduler{
		Eligibility: eligibility,
		Constraints: constraints,
		RestDays:    restDays,
		members:     make([]map[string]bool, len(eligibility)),
	}

	seen := make(map[string]bool)
	for i, cv := range eligibility {
		s.members[i] = make(map[string]bool, len(cv.Videos))
		for j, v := range cv.Videos {
			s.members[i][v.ID] = true
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			s.pool = append(s.pool, candidate{video: v, category: i, position: j})
		}
	}

	sort.SliceStable(s.pool, func(a, b int) bool {
		pa, pb := s.pool[a], s.pool[b]
		if pa.video.DurationMinutes != pb.video.DurationMinutes {
			return pa.video.DurationMinutes < pb.video.DurationMinutes
		}
		if pa.category != pb.category {
			return pa.category < pb.category
		}
		return pa.position < pb.position
	})
	return s
}

// PlanWeek plans each day in order, threading one used set through the whole week
func PlanWeek(weekDays []string, restDays models.RestDays, eligibility matcher.Eligibility, constraints models.DayConstraints) (models.WeekPlan, []models.Warning) {
	s := NewScheduler(eligibility, constraints, restDays)
	plan := s.PlanWeek(weekDays)
	return plan, s.Warnings
}

// PlanWeek plans each day in order and records warnings on the scheduler
func (s *Scheduler) PlanWeek(weekDays []string) models.WeekPlan {
	plan := models.WeekPlan{Days: make([]models.DaySlot, 0, len(weekDays))}
	used := UsedSet{}

	for _, day := range weekDays {
		if s.RestDays.Contains(day) {
			plan.Days = append(plan.Days, models.DaySlot{Day: day, Rest: true, Videos: []models.Video{}})
			logging.Info().Str("day", day).Msg("rest day")
			continue
		}

		slot, next, warnings := s.PlanDay(day, used)
		used = next
		s.Warnings = append(s.Warnings, warnings...)
		plan.Days = append(plan.Days, slot)

		logging.Info().
			Str("day", day).
			Int("videos", len(slot.Videos)).
			Float64("total_minutes", slot.TotalMinutes).
			Msg("day planned")
	}
	return plan
}

// PlanDay selects the videos of one workout day given the videos already used this week.
// It returns the slot, the used set extended by the new picks, and any warnings for the day.
// The used set passed in is not modified.
func (s *Scheduler) PlanDay(day string, used UsedSet) (models.DaySlot, UsedSet, []models.Warning) {
	next := used.Clone()
	slot := models.DaySlot{Day: day, Videos: []models.Video{}}
	var warnings []models.Warning

	maxVideos := s.Constraints.MaxVideosPerDay
	maxMinutes := s.Constraints.MaxDurationMinutes

	add := func(v models.Video) {
		slot.Videos = append(slot.Videos, v)
		slot.TotalMinutes += v.DurationMinutes
		next[v.ID] = true
	}

	// Daily coverage pass
	for i, cv := range s.Eligibility {
		if !cv.Category.Daily || s.covered(i, slot.Videos) {
			continue
		}
		pick, ok := shortestUnused(cv.Videos, next)
		if !ok {
			warnings = append(warnings, models.Warning{
				Kind:     models.WarningCoverage,
				Day:      day,
				Category: cv.Category.Name,
				Message:  fmt.Sprintf("no unused video left for daily category %q", cv.Category.Name),
			})
			continue
		}
		if len(slot.Videos) >= maxVideos {
			warnings = append(warnings, models.Warning{
				Kind:     models.WarningCoverage,
				Day:      day,
				Category: cv.Category.Name,
				Message:  fmt.Sprintf("daily category %q skipped: day already holds %d videos", cv.Category.Name, maxVideos),
			})
			continue
		}
		add(pick)
		if slot.TotalMinutes > maxMinutes+tolerance {
			warnings = append(warnings, models.Warning{
				Kind:     models.WarningOverrun,
				Day:      day,
				Category: cv.Category.Name,
				Message: fmt.Sprintf("daily pick %q brings the day to %.1f min, above the %.1f min limit",
					pick.Title, slot.TotalMinutes, maxMinutes),
			})
		}
	}

	// Fill pass, shortest first
	overBudget := 0
	available := 0
	for _, c := range s.pool {
		if next[c.video.ID] {
			continue
		}
		available++
		if len(slot.Videos) >= maxVideos {
			break
		}
		if slot.TotalMinutes+c.video.DurationMinutes > maxMinutes+tolerance {
			overBudget++
			continue
		}
		add(c.video)
	}

	if w, under := s.underfill(day, slot, available, overBudget); under {
		warnings = append(warnings, w)
	}
	return slot, next, warnings
}

// covered reports whether the selection already holds a video eligible for category i
func (s *Scheduler) covered(i int, selected []models.Video) bool {
	for _, v := range selected {
		if s.members[i][v.ID] {
			return true
		}
	}
	return false
}

// shortestUnused returns the shortest video not in used, earliest first on ties
func shortestUnused(videos []models.Video, used UsedSet) (models.Video, bool) {
	var best models.Video
	found := false
	for _, v := range videos {
		if used[v.ID] {
			continue
		}
		if !found || v.DurationMinutes < best.DurationMinutes {
			best = v
			found = true
		}
	}
	return best, found
}

func (s *Scheduler) underfill(day string, slot models.DaySlot, available, overBudget int) (models.Warning, bool) {
	shortCount := len(slot.Videos) < s.Constraints.MinVideosPerDay
	shortTime := slot.TotalMinutes+tolerance < s.Constraints.MinDurationMinutes
	if !shortCount && !shortTime {
		return models.Warning{}, false
	}

	var reasons []string
	if available == 0 && len(slot.Videos) == 0 {
		reasons = append(reasons, "no eligible videos left")
	} else {
		if overBudget > 0 {
			reasons = append(reasons, fmt.Sprintf("%d videos did not fit the %.1f min limit", overBudget, s.Constraints.MaxDurationMinutes))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, "not enough unused eligible videos")
		}
	}

	return models.Warning{
		Kind: models.WarningUnderfill,
		Day:  day,
		Message: fmt.Sprintf("%d/%d videos, %.1f/%.1f min: %s",
			len(slot.Videos), s.Constraints.MinVideosPerDay,
			slot.TotalMinutes, s.Constraints.MinDurationMinutes,
			strings.Join(reasons, "; ")),
	}, true
}

// BalanceScore returns a percentage (0-100) describing how evenly minutes are spread
// over the workout days. 100% means every workout day has the same total.
func BalanceScore(plan models.WeekPlan) float64 {
	var totals []float64
	for _, d := range plan.Days {
		if !d.Rest {
			totals = append(totals, d.TotalMinutes)
		}
	}
	if len(totals) == 0 {
		return 100.0
	}

	var sum float64
	for _, t := range totals {
		sum += t
	}
	if sum == 0 {
		return 100.0
	}
	mean := sum / float64(len(totals))

	var varianceSum float64
	for _, t := range totals {
		diff := t - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(totals)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
