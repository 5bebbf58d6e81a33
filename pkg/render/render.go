// Package render writes a RenderableSchedule as a document.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

// Renderer writes a schedule to w
type Renderer interface {
	Render(w io.Writer, s *models.RenderableSchedule) error
	ContentType() string
}

// ForFormat returns the renderer for a format name or a file name with that extension
func ForFormat(name string) (Renderer, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if format == "" {
		format = strings.ToLower(name)
	}
	switch format {
	case "pdf":
		return NewPDFRenderer(), nil
	case "html", "htm":
		return HTMLRenderer{}, nil
	case "csv":
		return CSVRenderer{}, nil
	case "json":
		return JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", name)
}

// JSONRenderer writes the schedule as indented JSON
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(w io.Writer, s *models.RenderableSchedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// CSVRenderer writes one row per scheduled video
type CSVRenderer struct{}

func (CSVRenderer) ContentType() string { return "text/csv" }

func (CSVRenderer) Render(w io.Writer, s *models.RenderableSchedule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"day", "position", "title", "link", "duration_minutes", "thumbnail"}); err != nil {
		return err
	}
	for _, day := range s.Days {
		for i, v := range day.Videos {
			duration := ""
			if v.DurationMinutes != nil {
				duration = strconv.FormatFloat(*v.DurationMinutes, 'f', -1, 64)
			}
			if err := writer.Write([]string{day.Day, strconv.Itoa(i + 1), v.Title, v.Link, duration, v.Thumbnail}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatMinutes renders a duration like the day headings: whole minutes when possible
func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64) + " min"
}

// dayNote is the text under a day heading, empty when nothing should be shown
func dayNote(day models.RenderDay, showDuration bool) string {
	if day.Rest {
		return "Rest Day"
	}
	if showDuration && day.TotalMinutes != nil {
		return "(" + formatMinutes(roundTenth(*day.TotalMinutes)) + ")"
	}
	return ""
}

func roundTenth(m float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(m, 'f', 1, 64), 64)
	return v
}
