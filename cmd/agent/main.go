package main

import (
	"errors"
	"log"
	"os"

	"github.com/miguel-sanchez/PomodoroPal/internal/agent"
	"github.com/miguel-sanchez/PomodoroPal/internal/blocking"
	"github.com/miguel-sanchez/PomodoroPal/internal/config"
	"github.com/miguel-sanchez/PomodoroPal/internal/notify"
	"github.com/miguel-sanchez/PomodoroPal/internal/report"
	"github.com/miguel-sanchez/PomodoroPal/internal/settings"
	"github.com/miguel-sanchez/PomodoroPal/internal/store"
	"github.com/miguel-sanchez/PomodoroPal/internal/timer"
)

func main() {
	cfg := config.Load()

	blockingSettings, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		log.Printf("settings unreadable, using defaults: %v", err)
	}

	// Materialize the settings file on first run so the watcher has a
	// directory to observe and the settings UI has a file to edit.
	if _, statErr := os.Stat(cfg.SettingsPath); errors.Is(statErr, os.ErrNotExist) {
		if saveErr := settings.Save(cfg.SettingsPath, blockingSettings); saveErr != nil {
			log.Printf("cannot write default settings: %v", saveErr)
		}
	}

	controller := timer.New(
		timer.Deps{
			Store:     store.NewFileStore(cfg.StatePath),
			Reporter:  report.NewHTTPReporter(cfg.BackendBaseURL, cfg.ReportTimeout),
			Notifier:  notify.NewLogNotifier(),
			Indicator: notify.NewLogBadge(),
			Rules:     blocking.NewFilePublisher(cfg.RulesPath),
		},
		timer.Durations{
			WorkSeconds:       cfg.WorkDurationSeconds,
			ShortBreakSeconds: cfg.ShortBreakDurationSeconds,
			LongBreakSeconds:  cfg.LongBreakDurationSeconds,
		},
		blockingSettings,
		timer.Options{},
	)
	controller.Activate()
	defer controller.Shutdown()

	stopWatch, err := settings.Watch(cfg.SettingsPath, controller.UpdateSettings)
	if err != nil {
		log.Printf("settings watcher unavailable, edit settings and restart to apply: %v", err)
	} else {
		defer stopWatch()
	}

	engine := agent.NewRouter(controller)
	log.Printf("timer agent listening on :%s", cfg.AgentPort)
	if err := engine.Run("127.0.0.1:" + cfg.AgentPort); err != nil {
		log.Fatalf("run agent: %v", err)
	}
}
