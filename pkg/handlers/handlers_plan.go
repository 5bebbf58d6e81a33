package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/workout-scheduler-go/pkg/config"
	"github.com/arnavshah/workout-scheduler-go/pkg/database"
	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
	"github.com/arnavshah/workout-scheduler-go/pkg/pipeline"
	"github.com/arnavshah/workout-scheduler-go/pkg/render"
)

var errNoFetcher = errors.New("no video source configured; supply videos in the request")

// PlanJSON plans a week and returns the saved plan
func (h *Handler) PlanJSON(c *gin.Context) {
	resp, ok := h.plan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PlanCSV plans a week and returns the schedule as CSV text
func (h *Handler) PlanCSV(c *gin.Context) {
	resp, ok := h.plan(c)
	if !ok {
		return
	}

	var out strings.Builder
	if err := (render.CSVRenderer{}).Render(&out, resp.Schedule); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": resp.ID, "csv": out.String(), "warnings": resp.Warnings})
}

// plan decodes the request, runs the pipeline, saves the result and records usage.
// It writes the error response itself and reports false on failure.
func (h *Handler) plan(c *gin.Context) (*models.PlanResponse, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	var req models.PlanRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON: " + err.Error()})
		return nil, false
	}

	var res *pipeline.Result
	switch {
	case req.Videos != nil:
		res, err = pipeline.RunWithPool(&req.Config, req.Videos)
	case h.Fetcher != nil:
		res, err = pipeline.Run(c.Request.Context(), &req.Config, h.Fetcher)
	default:
		if err = config.Validate(&req.Config); err == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoFetcher.Error()})
			return nil, false
		}
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []models.Warning{}
	}
	resp := &models.PlanResponse{
		ID:       uuid.NewString(),
		Schedule: res.Schedule,
		Plan:     &res.Plan,
		Warnings: warnings,
		Stats:    res.Stats,
	}

	if err := h.savePlan(c, resp, req.Config); err != nil {
		respondError(c, err)
		return nil, false
	}
	h.RecordUsage(c, 1, res.Stats.Scheduled)

	logging.Info().
		Str("plan", resp.ID).
		Int("videos", res.Stats.Scheduled).
		Int("warnings", len(warnings)).
		Msg("plan created")
	return resp, true
}

func (h *Handler) savePlan(c *gin.Context, resp *models.PlanResponse, cfg models.InputConfig) error {
	result, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	rec := database.PlanRecord{
		ID:           resp.ID,
		Config:       string(cfgJSON),
		Result:       string(result),
		VideoCount:   resp.Stats.Scheduled,
		TotalMinutes: resp.Stats.TotalMinutes,
		WarningCount: len(resp.Warnings),
	}
	if apiKey := callerKey(c); apiKey != nil {
		rec.KeyID = apiKey.ID
	}
	return h.DB.Create(&rec).Error
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, planCount, videoCount int) {
	apiKey := callerKey(c)
	if apiKey == nil {
		return
	}

	today := time.Now().Format("2006-01-02")

	// OnConflict gives a single-query upsert on both Postgres and SQLite
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_plans":   gorm.Expr("total_plans + ?", planCount),
			"total_videos":  gorm.Expr("total_videos + ?", videoCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalPlans:   planCount,
		TotalVideos:  videoCount,
	}).Error
	if err != nil {
		logging.Error().Err(err).Uint("key_id", apiKey.ID).Msg("recording usage failed")
	}
}

// GetPlan returns a saved plan of the calling key
func (h *Handler) GetPlan(c *gin.Context) {
	rec, ok := h.loadPlan(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(rec.Result))
}

// RenderPlan renders a saved plan as pdf (default), html, csv or json
func (h *Handler) RenderPlan(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	renderer, err := render.ForFormat(format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, ok := h.loadPlan(c)
	if !ok {
		return
	}
	var resp models.PlanResponse
	if err := json.Unmarshal([]byte(rec.Result), &resp); err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, resp.Schedule); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="weekly_routine.`+strings.ToLower(format)+`"`)
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}

func (h *Handler) loadPlan(c *gin.Context) (*database.PlanRecord, bool) {
	q := h.DB.Where("id = ?", c.Param("id"))
	if apiKey := callerKey(c); apiKey != nil {
		q = q.Where("key_id = ?", apiKey.ID)
	}

	var rec database.PlanRecord
	if err := q.First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return &rec, true
}

func callerKey(c *gin.Context) *database.APIKey {
	raw, exists := c.Get("apiKey")
	if !exists {
		return nil
	}
	apiKey, _ := raw.(*database.APIKey)
	return apiKey
}
