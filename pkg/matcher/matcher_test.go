package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

func ids(videos []models.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func TestClassifyPolymorphicMembership(t *testing.T) {
	candidates := []models.Video{
		{ID: "1", Title: "Full Body CARDIO and Core"},
		{ID: "2", Title: "Morning Yoga"},
		{ID: "3", Title: "Core Crusher"},
	}
	categories := []models.ExerciseCategory{
		{Name: "Cardio", Keywords: []string{"cardio"}, Include: true},
		{Name: "Core", Keywords: []string{"core", "abs"}, Include: true, Daily: true},
		{Name: "Yoga", Keywords: []string{"yoga"}, Include: false},
	}

	got := Classify(candidates, categories, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "Cardio", got[0].Category.Name)
	assert.Equal(t, []string{"1"}, ids(got.Videos("Cardio")))
	assert.Equal(t, []string{"1", "3"}, ids(got.Videos("Core")))
	assert.Nil(t, got.Videos("Yoga"))
	assert.Equal(t, map[string]int{"Cardio": 1, "Core": 2}, got.Counts())
}

func TestClassifyExclusionTakesPrecedence(t *testing.T) {
	candidates := []models.Video{
		{ID: "1", Title: "Cardio Workout #shorts"},
		{ID: "2", Title: "Cardio Workout"},
	}
	categories := []models.ExerciseCategory{{Name: "Cardio", Keywords: []string{"cardio"}, Include: true}}

	got := Classify(candidates, categories, []string{"#Shorts"})

	assert.Equal(t, []string{"2"}, ids(got.Videos("Cardio")))
	assert.True(t, Excluded("My #SHORTS clip", []string{"#shorts"}))
	assert.False(t, Excluded("Cardio", []string{""}))
}

func TestClassifyEmptyKeywords(t *testing.T) {
	candidates := []models.Video{{ID: "1", Title: "Anything"}}
	categories := []models.ExerciseCategory{{Name: "Empty", Keywords: []string{"", "  "}, Include: true}}

	got := Classify(candidates, categories, nil)

	require.Len(t, got, 1)
	assert.Empty(t, got.Videos("Empty"))
}

func TestClassifySkipsMissingTitleAndDuplicates(t *testing.T) {
	candidates := []models.Video{
		{ID: "1", Title: ""},
		{ID: "2", Title: "HIIT"},
		{ID: "2", Title: "HIIT"},
	}
	categories := []models.ExerciseCategory{{Name: "HIIT", Keywords: []string{"hiit"}, Include: true}}

	got := Classify(candidates, categories, nil)

	assert.Equal(t, []string{"2"}, ids(got.Videos("HIIT")))
}

func TestMatches(t *testing.T) {
	cat := models.ExerciseCategory{Name: "Strength", Keywords: []string{"Dumbbell", "strength"}}
	assert.True(t, Matches("20 min DUMBBELL workout", cat))
	assert.False(t, Matches("Yoga", cat))
}

func TestClassifyKeepsConfiguredKeywords(t *testing.T) {
	categories := []models.ExerciseCategory{{Name: "HIIT", Keywords: []string{" HIIT "}, Include: true}}

	got := Classify([]models.Video{{ID: "1", Title: "hiit burn"}}, categories, []string{" SHORTS "})

	assert.Equal(t, []string{"1"}, ids(got.Videos("HIIT")))
	assert.Equal(t, []string{" HIIT "}, got[0].Category.Keywords)
	assert.Equal(t, []string{" HIIT "}, categories[0].Keywords)
}
