package assembler

import (
	"fmt"

	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

// StructuralError reports a week plan that does not have one slot per week day
type StructuralError struct {
	Slots int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("week plan has %d day slots, want %d", e.Slots, len(models.WeekDays))
}

// Assemble turns a week plan into the record consumed by renderers
func Assemble(plan models.WeekPlan, settings models.Settings) (*models.RenderableSchedule, error) {
	if len(plan.Days) != len(models.WeekDays) {
		return nil, &StructuralError{Slots: len(plan.Days)}
	}

	out := &models.RenderableSchedule{
		Days:          make([]models.RenderDay, 0, len(plan.Days)),
		ShowDuration:  settings.ShowDuration,
		ShowThumbnail: settings.ShowThumbnail,
	}

	var weekTotal float64
	for _, slot := range plan.Days {
		day := models.RenderDay{
			Day:    slot.Day,
			Rest:   slot.Rest,
			Videos: make([]models.VideoRecord, 0, len(slot.Videos)),
		}

		var dayTotal float64
		for _, v := range slot.Videos {
			rec := models.VideoRecord{Title: v.Title, Link: v.Link}
			if settings.ShowThumbnail {
				rec.Thumbnail = v.Thumbnail
			}
			if settings.ShowDuration {
				rec.DurationMinutes = minutes(v.DurationMinutes)
			}
			day.Videos = append(day.Videos, rec)
			dayTotal += v.DurationMinutes
		}

		if settings.ShowDuration {
			day.TotalMinutes = minutes(dayTotal)
		}
		weekTotal += dayTotal
		out.Days = append(out.Days, day)
	}

	if settings.ShowDuration {
		out.TotalMinutes = minutes(weekTotal)
	}
	return out, nil
}

func minutes(m float64) *float64 {
	return &m
}
