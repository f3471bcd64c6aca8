package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/stats"
	"github.com/sadopc/pomodr/internal/timer"
)

type reportsModel struct {
	engine *timer.Engine
	now    func() time.Time
	width  int
	height int

	summary stats.Summary
	chart   barchart.Model
}

func newReportsModel(e *timer.Engine, now func() time.Time) reportsModel {
	return reportsModel{
		engine: e,
		now:    now,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type reportsDataMsg struct {
	summary stats.Summary
}

// refresh snapshots the session log on the caller's goroutine; only the
// aggregation runs inside the command.
func (r reportsModel) refresh() tea.Cmd {
	sessions := r.engine.Sessions()
	now := r.now()
	return func() tea.Msg {
		return reportsDataMsg{summary: stats.Weekly(sessions, now)}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.summary = msg.summary
		r.buildChart()
		return r, nil
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(r.summary.Days))
	for _, d := range r.summary.Days {
		style := lipgloss.NewStyle().Foreground(colorAccent)
		if d.FocusMinutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.Day.Format("Mon"),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: float64(d.FocusMinutes),
				Style: style,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := titleStyle.Render("Weekly Focus")
	if len(r.summary.Days) > 0 {
		from := r.summary.Days[0].Day
		to := r.summary.Days[len(r.summary.Days)-1].Day
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ",
			mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Format("Jan 02, 2006"))),
		)
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			r.renderTotals(), "",
			r.chart.View(), "",
			r.renderDayTable(w),
		),
	)
}

func (r reportsModel) renderTotals() string {
	s := r.summary
	cell := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left,
			highlightStyle.Bold(true).Render(value),
			mutedStyle.Render(label),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell("sessions", fmt.Sprintf("%d", s.TotalWorkSessions)), "    ",
		cell("focus time", formatMinutes(s.TotalFocusMinutes)), "    ",
		cell("daily average", formatMinutes(s.AvgFocusMinutes)),
	)
}

func (r reportsModel) renderDayTable(w int) string {
	if r.summary.TotalWorkSessions == 0 {
		return mutedStyle.Render("  No focus sessions in the last 7 days")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Day", "Focus", "Sessions")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 34))))

	for _, d := range r.summary.Days {
		if d.WorkSessions == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10d",
			d.Day.Format("Mon Jan 02"), formatMinutes(d.FocusMinutes), d.WorkSessions,
		))
	}
	return strings.Join(rows, "\n")
}
