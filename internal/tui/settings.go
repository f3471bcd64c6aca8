package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomodr/internal/profile"
	"github.com/sadopc/pomodr/internal/store"
	"github.com/sadopc/pomodr/internal/timer"
)

type settingsForm int

const (
	formNone settingsForm = iota
	formNewProfile
	formRenameProfile
	formDeleteProfile
	formEditSettings
	formResetDefaults
)

type settingsModel struct {
	profiles *profile.Manager
	engine   *timer.Engine
	width    int
	height   int

	cursor int

	formActive bool
	form       *huh.Form
	formType   settingsForm
	targetID   string

	// Form values as pointers (survive value copies)
	formName *string
	confirm  *bool
	input    *profile.SettingsInput
}

func newSettingsModel(pm *profile.Manager, e *timer.Engine) settingsModel {
	name, confirm := "", false
	m := settingsModel{
		profiles: pm,
		engine:   e,
		formName: &name,
		confirm:  &confirm,
		input:    &profile.SettingsInput{},
	}
	m.cursor = m.activeIndex()
	return m
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) activeIndex() int {
	for i, p := range s.profiles.Profiles() {
		if p.ID == s.profiles.ActiveID() {
			return i
		}
	}
	return 0
}

func (s settingsModel) selected() (store.Profile, bool) {
	list := s.profiles.Profiles()
	if s.cursor < 0 || s.cursor >= len(list) {
		return store.Profile{}, false
	}
	return list[s.cursor], true
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(s.profiles.Profiles())-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Enter):
		p, ok := s.selected()
		if ok && s.profiles.SelectProfile(p.ID) {
			s.engine.SettingsChanged()
			return s, statusCmd("Switched to "+p.Name, false)
		}
	case key.Matches(km, keys.New):
		*s.formName = ""
		return s.showForm(formNewProfile, "", huh.NewGroup(
			huh.NewInput().Title("Profile name").Value(s.formName),
		))
	case key.Matches(km, keys.Rename):
		p, ok := s.selected()
		if !ok {
			return s, nil
		}
		*s.formName = p.Name
		return s.showForm(formRenameProfile, p.ID, huh.NewGroup(
			huh.NewInput().Title("Rename profile").Value(s.formName),
		))
	case key.Matches(km, keys.Delete):
		p, ok := s.selected()
		if !ok {
			return s, nil
		}
		if len(s.profiles.Profiles()) <= 1 {
			return s, statusCmd("Cannot delete the only profile", true)
		}
		*s.confirm = false
		return s.showForm(formDeleteProfile, p.ID, huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete profile %q?", p.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(s.confirm),
		))
	case key.Matches(km, keys.Edit):
		*s.input = profile.InputFromSettings(s.profiles.ActiveSettings())
		return s.showForm(formEditSettings, s.profiles.ActiveID(), huh.NewGroup(
			huh.NewInput().Title("Work (min)").Description("1–60").Value(&s.input.WorkDuration),
			huh.NewInput().Title("Short break (min)").Description("1–30").Value(&s.input.ShortBreakDuration),
			huh.NewInput().Title("Long break (min)").Description("1–60").Value(&s.input.LongBreakDuration),
			huh.NewInput().Title("Sessions until long break").Description("2–10").Value(&s.input.SessionsUntilLongBreak),
			huh.NewConfirm().Title("Auto-start breaks").Value(&s.input.AutoStartBreaks),
			huh.NewConfirm().Title("Auto-start work").Value(&s.input.AutoStartWork),
		).Title("Timer"))
	case key.Matches(km, keys.Defaults):
		*s.confirm = false
		return s.showForm(formResetDefaults, s.profiles.ActiveID(), huh.NewGroup(
			huh.NewConfirm().
				Title("Reset this profile to the default settings?").
				Affirmative("Reset").
				Negative("Cancel").
				Value(s.confirm),
		))
	}
	return s, nil
}

func (s settingsModel) showForm(kind settingsForm, target string, group *huh.Group) (settingsModel, tea.Cmd) {
	s.form = huh.NewForm(group).WithShowHelp(true).WithShowErrors(true)
	s.formType = kind
	s.targetID = target
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.closeForm()
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		kind, target := s.formType, s.targetID
		s.closeForm()
		return s.apply(kind, target)
	}

	return s, cmd
}

func (s *settingsModel) closeForm() {
	s.formActive = false
	s.form = nil
	s.formType = formNone
	s.targetID = ""
}

func (s settingsModel) apply(kind settingsForm, target string) (settingsModel, tea.Cmd) {
	switch kind {
	case formNewProfile:
		if !s.profiles.CreateProfile(*s.formName) {
			return s, statusCmd("Profile name cannot be empty", true)
		}
		s.cursor = 0
		s.engine.SettingsChanged()
		return s, statusCmd("Created profile "+strings.TrimSpace(*s.formName), false)

	case formRenameProfile:
		if !s.profiles.RenameProfile(target, *s.formName) {
			return s, statusCmd("Profile name cannot be empty", true)
		}
		return s, statusCmd("Profile renamed", false)

	case formDeleteProfile:
		if !*s.confirm {
			return s, nil
		}
		wasActive := target == s.profiles.ActiveID()
		if !s.profiles.DeleteProfile(target) {
			return s, statusCmd("Cannot delete the only profile", true)
		}
		if wasActive {
			s.engine.SettingsChanged()
		}
		s.cursor = min(s.cursor, len(s.profiles.Profiles())-1)
		return s, statusCmd("Profile deleted", false)

	case formEditSettings:
		if target != s.profiles.ActiveID() {
			return s, nil
		}
		s.profiles.UpdateSettings(profile.ParseSettingsInput(*s.input))
		s.engine.SettingsChanged()
		return s, statusCmd("Settings saved", false)

	case formResetDefaults:
		if !*s.confirm || target != s.profiles.ActiveID() {
			return s, nil
		}
		s.profiles.ResetSettings()
		s.engine.SettingsChanged()
		return s, statusCmd("Settings reset to defaults", false)
	}
	return s, nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if p, ok := s.profiles.Active(); ok {
			title += mutedStyle.Render("  · " + p.Name)
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.renderProfiles(w),
		s.renderSettings(w),
	)
}

func (s settingsModel) renderProfiles(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Profiles"))
	rows = append(rows, "")

	active := s.profiles.ActiveID()
	for i, p := range s.profiles.Profiles() {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		marker := "  "
		if p.ID == active {
			marker = successStyle.Render("● ")
		}
		rows = append(rows, cursor+marker+style.Render(p.Name))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: activate  n: new  r: rename  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (s settingsModel) renderSettings(w int) string {
	st := s.profiles.ActiveSettings()

	line := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(28).Render(label), highlightStyle.Render(value))
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	rows := []string{
		titleStyle.Render("Timer Settings"),
		"",
		line("Work", fmt.Sprintf("%d min", st.WorkDuration)),
		line("Short break", fmt.Sprintf("%d min", st.ShortBreakDuration)),
		line("Long break", fmt.Sprintf("%d min", st.LongBreakDuration)),
		line("Sessions until long break", fmt.Sprintf("%d", st.SessionsUntilLongBreak)),
		line("Auto-start breaks", onOff(st.AutoStartBreaks)),
		line("Auto-start work", onOff(st.AutoStartWork)),
		"",
		mutedStyle.Render("  c: configure  x: reset to defaults"),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
