package render

import (
	"embed"
	"html/template"
	"io"

	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

//go:embed templates/*
var templateFS embed.FS

var scheduleTemplate = template.Must(template.New("schedule.html.tmpl").Funcs(template.FuncMap{
	"note":    dayNote,
	"minutes": formatMinutes,
	"deref":   func(m *float64) float64 { return *m },
	"color":   func(i int) template.CSS { return template.CSS(pastelHex[i%len(pastelHex)]) },
}).ParseFS(templateFS, "templates/schedule.html.tmpl"))

var pastelHex = []string{"#ffc0cb", "#add8e6", "#ffe4e1", "#90ee90", "#b0c4de", "#e6e6fa", "#ffffe0"}

// HTMLRenderer writes a standalone HTML page
type HTMLRenderer struct{}

func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (HTMLRenderer) Render(w io.Writer, s *models.RenderableSchedule) error {
	return scheduleTemplate.Execute(w, s)
}
