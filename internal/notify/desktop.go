package notify

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/sadopc/pomodr/internal/store"
	"go.uber.org/zap"
)

type message struct {
	title string
	body  string
}

var messages = map[store.Phase]message{
	store.PhaseWork: {
		title: "🍅 Time to Focus!",
		body:  "Your work session is starting. Let's get productive!",
	},
	store.PhaseShortBreak: {
		title: "☕ Short Break",
		body:  "Great work! Take a short break to recharge.",
	},
	store.PhaseLongBreak: {
		title: "🎉 Long Break",
		body:  "Excellent progress! Enjoy your well-deserved long break.",
	},
}

// Desktop shows system notifications through notify-send or osascript.
type Desktop struct {
	enabled bool
	log     *zap.Logger

	goos     string
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

func NewDesktop(enabled bool, log *zap.Logger) *Desktop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Desktop{
		enabled:  enabled,
		log:      log,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			if err := cmd.Start(); err != nil {
				return err
			}
			go cmd.Wait()
			return nil
		},
	}
}

// Permission reports whether notifications are enabled and a backend is
// installed.
func (d *Desktop) Permission() bool {
	_, ok := d.backend()
	return d.enabled && ok
}

// Notify announces next. Without permission it does nothing.
func (d *Desktop) Notify(next store.Phase) {
	if !d.enabled {
		return
	}
	name, ok := d.backend()
	if !ok {
		d.log.Debug("no notification backend", zap.String("goos", d.goos))
		return
	}
	msg, ok := messages[next]
	if !ok {
		return
	}

	var args []string
	switch name {
	case "notify-send":
		args = []string{"--app-name=pomodr", msg.title, msg.body}
	case "osascript":
		args = []string{"-e", fmt.Sprintf("display notification %q with title %q", msg.body, msg.title)}
	}
	if err := d.run(name, args...); err != nil {
		d.log.Debug("notification failed", zap.String("backend", name), zap.Error(err))
	}
}

func (d *Desktop) backend() (string, bool) {
	var name string
	switch d.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		name = "notify-send"
	case "darwin":
		name = "osascript"
	default:
		return "", false
	}
	if _, err := d.lookPath(name); err != nil {
		return "", false
	}
	return name, true
}
