package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/okubot/bookclub/bookclub/database/models"
)

// CalendarImageService renders a user's month of daily statuses as a PNG
// via headless Chrome, the same pipeline the profile embeds link to.
type CalendarImageService struct {
	logger *slog.Logger
}

func NewCalendarImageService() *CalendarImageService {
	return &CalendarImageService{
		logger: slog.With(slog.String("service", "calendar_image")),
	}
}

type calendarCell struct {
	Day   int
	Class string
}

type calendarData struct {
	Title string
	Cells []calendarCell
}

const calendarTemplate = `<html><head><style>
body { margin: 0; background: #1e1f22; font-family: sans-serif; }
#calendar-container { width: 420px; padding: 16px; }
h2 { color: #f2f3f5; font-size: 18px; margin: 0 0 12px 0; }
.grid { display: grid; grid-template-columns: repeat(7, 1fr); gap: 6px; }
.cell { height: 48px; border-radius: 6px; display: flex; align-items: center;
        justify-content: center; color: #f2f3f5; font-size: 14px; }
.blank { background: transparent; }
.achieved { background: #2d7d46; }
.partial { background: #b8860b; }
.missed { background: #a12d2f; }
.pending { background: #4e5058; }
.none { background: #313338; }
</style></head><body>
<div id="calendar-container">
<h2>{{.Title}}</h2>
<div class="grid">
{{range .Cells}}<div class="cell {{.Class}}">{{if .Day}}{{.Day}}{{end}}</div>{{end}}
</div>
</div>
</body></html>`

// Generate renders the calendar for the month containing monthStart.
// statuses maps day-of-month to the day's verdict; absent days render
// neutral.
func (s *CalendarImageService) Generate(ctx context.Context, title string, monthStart time.Time, statuses map[int]models.LogStatus) ([]byte, error) {
	start := time.Now()

	htmlContent, err := s.generateHTML(title, monthStart, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#calendar-container", chromedp.ByID),
		chromedp.Sleep(300*time.Millisecond),
		chromedp.Screenshot("#calendar-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate calendar image",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Debug("Calendar image generated",
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))
	return imageBytes, nil
}

func (s *CalendarImageService) generateHTML(title string, monthStart time.Time, statuses map[int]models.LogStatus) (string, error) {
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, monthStart.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-first grid; leading blanks pad to the first weekday.
	leading := (int(first.Weekday()) + 6) % 7
	cells := make([]calendarCell, 0, leading+daysInMonth)
	for i := 0; i < leading; i++ {
		cells = append(cells, calendarCell{Class: "blank"})
	}
	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, calendarCell{Day: day, Class: statusClass(statuses[day])})
	}

	tmpl, err := template.New("calendar").Parse(calendarTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, calendarData{Title: title, Cells: cells}); err != nil {
		return "", err
	}

	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")
	return htmlContent, nil
}

func statusClass(status models.LogStatus) string {
	switch status {
	case models.StatusAchieved:
		return "achieved"
	case models.StatusReadNotEnough:
		return "partial"
	case models.StatusNotRead, models.StatusMissed:
		return "missed"
	case models.StatusPending:
		return "pending"
	default:
		return "none"
	}
}
