package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pomodr/internal/config"
	"github.com/sadopc/pomodr/internal/logging"
	"github.com/sadopc/pomodr/internal/notify"
	"github.com/sadopc/pomodr/internal/store"
	"github.com/sadopc/pomodr/internal/tui"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Debug("config loaded", zap.Stringer("config", cfg))

	s, err := store.New(cfg.DBPath, log.Named("store"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	desktop := notify.NewDesktop(cfg.Notifications, log.Named("notify"))
	if cfg.Notifications && !desktop.Permission() {
		log.Info("desktop notifications unavailable")
	}

	app := tui.NewApp(s, tui.Options{
		Cues:      notify.NewBell(os.Stderr, cfg.Sound),
		Notifier:  desktop,
		Logger:    log,
		ExportDir: cfg.ExportDir,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
