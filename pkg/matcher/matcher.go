package matcher

import (
	"strings"

	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

// CategoryVideos is the eligible pool of a single category, in first-seen order
type CategoryVideos struct {
	Category models.ExerciseCategory
	Videos   []models.Video
}

// Eligibility maps included categories to their eligible videos, in declaration order
type Eligibility []CategoryVideos

// Videos returns the eligible videos of the named category
func (e Eligibility) Videos(name string) []models.Video {
	for _, cv := range e {
		if cv.Category.Name == name {
			return cv.Videos
		}
	}
	return nil
}

// Counts returns the number of eligible videos per category
func (e Eligibility) Counts() map[string]int {
	counts := make(map[string]int, len(e))
	for _, cv := range e {
		counts[cv.Category.Name] = len(cv.Videos)
	}
	return counts
}

// Classify assigns every candidate to each included category whose keywords appear in its title.
// Candidates matching an exclusion keyword are dropped before any category is considered.
func Classify(candidates []models.Video, categories []models.ExerciseCategory, exclusions []string) Eligibility {
	var result Eligibility
	for _, cat := range categories {
		if !cat.Include {
			continue
		}
		result = append(result, CategoryVideos{Category: cat})
	}
	exclusions = normalize(exclusions)

	// matching copies with normalized keywords; result keeps the configured ones
	matchers := make([]models.ExerciseCategory, len(result))
	seen := make([]map[string]bool, len(result))
	for i, cv := range result {
		matchers[i] = cv.Category
		matchers[i].Keywords = normalize(cv.Category.Keywords)
		seen[i] = make(map[string]bool)
	}

	for _, v := range candidates {
		if strings.TrimSpace(v.Title) == "" {
			logging.Debug().Str("video", v.ID).Msg("skipping video with missing title")
			continue
		}
		if Excluded(v.Title, exclusions) {
			logging.Debug().Str("video", v.ID).Str("title", v.Title).Msg("skipping video due to excluded keywords")
			continue
		}
		for i := range result {
			if seen[i][v.ID] || !Matches(v.Title, matchers[i]) {
				continue
			}
			seen[i][v.ID] = true
			result[i].Videos = append(result[i].Videos, v)
		}
	}
	return result
}

// Excluded reports whether title contains any exclusion keyword, ignoring case
func Excluded(title string, exclusions []string) bool {
	return containsAny(strings.ToLower(title), normalize(exclusions))
}

// Matches reports whether title contains any of the category keywords, ignoring case
func Matches(title string, cat models.ExerciseCategory) bool {
	return containsAny(strings.ToLower(title), normalize(cat.Keywords))
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(lowerTitle string, lowerWords []string) bool {
	for _, w := range lowerWords {
		if strings.Contains(lowerTitle, w) {
			return true
		}
	}
	return false
}
