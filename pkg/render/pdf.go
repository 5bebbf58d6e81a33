package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/arnavshah/workout-scheduler-go/pkg/logging"
	"github.com/arnavshah/workout-scheduler-go/pkg/models"
)

const (
	thumbnailWidthMM = 50.8 // 2 inches
	maxThumbnailSize = 5 << 20
)

type rgb struct{ r, g, b int }

var (
	darkSlateGrey = rgb{47, 79, 79}
	darkViolet    = rgb{148, 0, 211}
	violet        = rgb{238, 130, 238}
	blueViolet    = rgb{138, 43, 226}

	// day dividers cycle through these
	pastels = []rgb{
		{255, 192, 203}, // pink
		{173, 216, 230}, // light blue
		{255, 228, 225}, // misty rose
		{144, 238, 144}, // light green
		{176, 196, 222}, // light steel blue
		{230, 230, 250}, // lavender
		{255, 255, 224}, // light yellow
	}
)

// PDFRenderer writes a letter-sized PDF, downloading thumbnails when the schedule shows them
type PDFRenderer struct {
	HTTPClient *http.Client
}

// NewPDFRenderer returns a renderer with a short thumbnail download timeout
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{HTTPClient: &http.Client{Timeout: 10 * time.Second}}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, s *models.RenderableSchedule) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("Weekly Workout Routine", true)
	pdf.AddPage()

	setColor(pdf, darkSlateGrey)
	pdf.SetFont("Times", "B", 24)
	pdf.CellFormat(0, 12, "WEEKLY WORKOUT ROUTINE", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()

	for i, day := range s.Days {
		setColor(pdf, darkViolet)
		pdf.SetFont("Times", "B", 18)
		pdf.CellFormat(0, 9, tr(pdfText(day.Day)), "", 1, "L", false, 0, "")

		if note := dayNote(day, s.ShowDuration); note != "" {
			style := ""
			if day.Rest {
				style = "I"
			}
			setColor(pdf, violet)
			pdf.SetFont("Helvetica", style, 12)
			pdf.CellFormat(0, 7, note, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)

		for j, v := range day.Videos {
			if s.ShowThumbnail && v.Thumbnail != "" {
				r.thumbnail(pdf, fmt.Sprintf("thumb-%d-%d", i, j), v.Thumbnail)
			}

			setColor(pdf, darkSlateGrey)
			pdf.SetFont("Helvetica", "B", 10)
			title := v.Title
			if v.DurationMinutes != nil {
				title += " - " + formatMinutes(*v.DurationMinutes)
			}
			pdf.MultiCell(0, 5, tr(pdfText(title)), "", "L", false)

			setColor(pdf, blueViolet)
			pdf.SetFont("Helvetica", "U", 10)
			pdf.WriteLinkString(5, v.Link, v.Link)
			pdf.Ln(8)
		}

		c := pastels[i%len(pastels)]
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetLineWidth(0.7)
		y := pdf.GetY() + 2
		pdf.Line(left, y, pageWidth-right, y)
		pdf.Ln(6)
	}

	if s.TotalMinutes != nil {
		setColor(pdf, violet)
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, "Week total: "+formatMinutes(roundTenth(*s.TotalMinutes)), "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

// thumbnail places the image at url, or a short note when it cannot be loaded
func (r *PDFRenderer) thumbnail(pdf *fpdf.Fpdf, name, url string) {
	data, imageType, err := r.download(url)
	if err == nil {
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
		if pdf.Ok() {
			pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), thumbnailWidthMM, 0, true, fpdf.ImageOptions{ImageType: imageType}, 0, "")
			pdf.Ln(2)
			return
		}
		err = pdf.Error()
		pdf.ClearError()
	}

	logging.Error().Err(err).Str("url", url).Msg("error including thumbnail")
	setColor(pdf, darkSlateGrey)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, "Error loading thumbnail", "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) download(url string) ([]byte, string, error) {
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("thumbnail %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("thumbnail %s: content type %q is not an image", url, ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailSize))
	if err != nil {
		return nil, "", err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("thumbnail %s: %w", url, err)
	}
	switch format {
	case "jpeg":
		return data, "JPG", nil
	case "png":
		return data, "PNG", nil
	}
	return nil, "", fmt.Errorf("thumbnail %s: unsupported format %s", url, format)
}

// pdfText drops the characters the core fonts cannot encode (cp1252), such as emoji
// and non-Latin scripts, so they do not come out garbled
func pdfText(s string) string {
	kept, dropped := winAnsi(s)
	if dropped > 0 {
		logging.Warn().Str("text", s).Int("dropped", dropped).Msg("removed characters the PDF font cannot encode")
	}
	return kept
}

func winAnsi(s string) (string, int) {
	var b strings.Builder
	dropped := 0
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			dropped++
			continue
		}
		b.WriteRune(r)
	}
	if dropped == 0 {
		return s, 0
	}
	return strings.Join(strings.Fields(b.String()), " "), dropped
}

func setColor(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
