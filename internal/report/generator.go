package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"text/template"
	"time"

	"github.com/farmwatch/internal/alert"
	"github.com/farmwatch/internal/models"
)

// Generator renders a plain-text alert summary for a farm, used by the
// dashboard report endpoint and the CLI.
type Generator struct {
	store *alert.Store
	tmpl  *template.Template
}

type reportData struct {
	FarmID      string
	WindowStart time.Time
	WindowEnd   time.Time
	Stats       *alert.DashboardStats
	TopTypes    []typeCount
	OpenAlerts  []openAlert
}

type typeCount struct {
	Type  string
	Count int64
}

type openAlert struct {
	Title    string
	Severity string
	Urgency  int
	Age      string
}

const summaryTemplate = `FarmWatch alert summary for farm {{.FarmID}}
Window: {{.WindowStart.Format "2006-01-02 15:04"}} to {{.WindowEnd.Format "2006-01-02 15:04"}}

Open alerts:       {{.Stats.ActiveCount}}
Critical open:     {{.Stats.CriticalCount}}
Raised in window:  {{.Stats.TotalInWindow}}
Resolved:          {{.Stats.ResolvedCount}} ({{printf "%.0f" (mulf .Stats.ResolutionRate 100)}}%)

Top alert types:
{{- range .TopTypes}}
  {{printf "%-32s %d" .Type .Count}}
{{- end}}

Most urgent open alerts:
{{- range .OpenAlerts}}
  [{{.Severity}}] {{.Title}} (urgency {{.Urgency}}, open {{.Age}})
{{- end}}
`

func NewGenerator(store *alert.Store) (*Generator, error) {
	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"mulf": func(a, b float64) float64 { return a * b },
	}).Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &Generator{store: store, tmpl: tmpl}, nil
}

// Render produces the summary for the trailing window ending now.
func (g *Generator) Render(ctx context.Context, farmID string, window time.Duration) (string, error) {
	now := time.Now()

	stats, err := g.store.Stats(ctx, farmID, window, now)
	if err != nil {
		return "", fmt.Errorf("failed to collect report data: %w", err)
	}

	data := reportData{
		FarmID:      farmID,
		WindowStart: stats.WindowStart,
		WindowEnd:   stats.WindowEnd,
		Stats:       stats,
	}

	for alertType, count := range stats.ByType {
		data.TopTypes = append(data.TopTypes, typeCount{Type: alertType, Count: count})
	}
	sort.Slice(data.TopTypes, func(i, j int) bool {
		if data.TopTypes[i].Count != data.TopTypes[j].Count {
			return data.TopTypes[i].Count > data.TopTypes[j].Count
		}
		return data.TopTypes[i].Type < data.TopTypes[j].Type
	})
	if len(data.TopTypes) > 5 {
		data.TopTypes = data.TopTypes[:5]
	}

	open, err := g.store.List(ctx, alert.ListFilter{FarmID: farmID, Status: models.AlertStatusActive})
	if err != nil {
		return "", fmt.Errorf("failed to list open alerts: %w", err)
	}
	sort.Slice(open, func(i, j int) bool {
		return alert.UrgencyScore(&open[i], now) > alert.UrgencyScore(&open[j], now)
	})
	if len(open) > 10 {
		open = open[:10]
	}
	for _, a := range open {
		data.OpenAlerts = append(data.OpenAlerts, openAlert{
			Title:    a.Title,
			Severity: string(a.Severity),
			Urgency:  alert.UrgencyScore(&a, now),
			Age:      now.Sub(a.CreatedAt).Round(time.Minute).String(),
		})
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return buf.String(), nil
}
