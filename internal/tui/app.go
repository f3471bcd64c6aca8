package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/export"
	"github.com/sadopc/pomodr/internal/profile"
	"github.com/sadopc/pomodr/internal/store"
	"github.com/sadopc/pomodr/internal/tasks"
	"github.com/sadopc/pomodr/internal/timer"
	"go.uber.org/zap"
)

// Options configures the collaborators the App hands to the timer engine.
// Zero values are valid: no sound, no notifications, no logging.
type Options struct {
	Cues      timer.Cues
	Notifier  timer.Notifier
	Logger    *zap.Logger
	ExportDir string
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	engine    *timer.Engine
	profiles  *profile.Manager
	tasks     *tasks.List
	sched     *tickScheduler
	log       *zap.Logger
	exportDir string
	now       func() time.Time

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	pomodoro pomodoroModel
	taskList tasksModel
	reports  reportsModel
	history  historyModel
	settings settingsModel

	help        help.Model
	status      string
	statusError bool
	windowTitle string
}

func NewApp(s *store.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	sched := newTickScheduler()
	profiles := profile.NewManager(s, store.DefaultSettings())
	engine := timer.New(s, profiles, timer.Config{
		Scheduler: sched,
		Cues:      opts.Cues,
		Notifier:  opts.Notifier,
		Now:       opts.Now,
		Logger:    opts.Logger.Named("timer"),
	})
	list := tasks.NewList(s)

	h := help.New()
	h.ShowAll = false

	return App{
		engine:     engine,
		profiles:   profiles,
		tasks:      list,
		sched:      sched,
		log:        opts.Logger,
		exportDir:  opts.ExportDir,
		now:        opts.Now,
		activeView: viewTimer,
		pomodoro:   newPomodoroModel(engine, profiles),
		taskList:   newTasksModel(list),
		reports:    newReportsModel(engine, opts.Now),
		history:    newHistoryModel(engine, opts.Now),
		settings:   newSettingsModel(profiles, engine),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.history.refresh(),
		a.reports.refresh(),
		tea.SetWindowTitle(a.title()),
	)
}

// Update routes msg and then schedules whatever the engine needs next: the
// pending tick, view refreshes after a new session, and the window title.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	count := a.engine.SessionCount()

	model, cmd := a.update(msg)
	app := model.(App)

	cmds := []tea.Cmd{cmd, app.sched.pending()}
	if app.engine.SessionCount() != count {
		cmds = append(cmds, app.history.refresh(), app.reports.refresh())
	}
	if t := app.title(); t != app.windowTitle {
		app.windowTitle = t
		cmds = append(cmds, tea.SetWindowTitle(t))
	}
	return app, tea.Batch(cmds...)
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.taskList.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTasks
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		a.sched.handle(msg)
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case reportsDataMsg:
		a.reports, _ = a.reports.update(msg)
		return a, nil

	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewTasks:
		a.taskList, cmd = a.taskList.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.taskList.formActive
	case viewHistory:
		return a.history.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewReports:
		return a.reports.refresh()
	case viewHistory:
		return a.history.refresh()
	}
	return nil
}

// title is the terminal window title: the countdown and the phase.
func (a App) title() string {
	return fmt.Sprintf("%s - %s | pomodr", formatClock(a.engine.TimeRemaining()), a.engine.Phase().Label())
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.pomodoro.view()
	case viewTasks:
		content = a.taskList.view()
	case viewReports:
		content = a.reports.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pomodr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator outside the timer view
	timerInfo := ""
	if a.activeView != viewTimer {
		clock := formatClock(a.engine.TimeRemaining())
		switch a.engine.Status() {
		case store.StatusRunning:
			timerInfo = phaseStyle(a.engine.Phase()).Render(" ● " + clock)
		case store.StatusPaused:
			timerInfo = warningStyle.Render(" ⏸ " + clock)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Sessions"))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d sessions to %s", a.engine.SessionCount(), a.exportDir)))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport copies the session log before the command runs off the event
// loop.
func (a App) doExport(format int) tea.Cmd {
	sessions := a.engine.Sessions()
	dateStr := a.now().Format("2006-01-02")
	dir := a.exportDir
	log := a.log

	return func() tea.Msg {
		var path string
		var err error
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("pomodr-sessions-%s.csv", dateStr))
			err = export.ToCSV(sessions, path)
		} else {
			path = filepath.Join(dir, fmt.Sprintf("pomodr-sessions-%s.json", dateStr))
			err = export.ToJSON(sessions, path)
		}
		if err != nil {
			log.Warn("export failed", zap.String("path", path), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		log.Info("exported sessions", zap.String("path", path), zap.Int("count", len(sessions)))
		return exportDoneMsg{path: path}
	}
}
