package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
	"github.com/arnavshah/workout-scheduler-go/pkg/youtube"
)

// ValidateInput checks an input document without planning
func (h *Handler) ValidateInput(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	var input models.InputConfig
	if err := json.Unmarshal(raw, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "malformed JSON: " + err.Error()})
		return
	}

	if err := config.Validate(&input); err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": cfgErr.Error(), "field": cfgErr.Field})
			return
		}
		respondError(c, err)
		return
	}

	workoutDays, dailyCategories := 0, 0
	for _, day := range models.WeekDays {
		if !input.RestDays.Contains(day) {
			workoutDays++
		}
	}
	for _, cat := range input.IncludedCategories() {
		if cat.Daily {
			dailyCategories++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"channel_count":          len(input.IncludedChannels()),
			"category_count":         len(input.IncludedCategories()),
			"daily_category_count":   dailyCategories,
			"workout_day_count":      workoutDays,
			"search_queries_per_run": len(input.IncludedChannels()) * len(youtube.SpecFromConfig(&input).Queries),
		},
	})
}
