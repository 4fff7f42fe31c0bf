package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/tanmaystar-512/Smart-to-do-List/internal/config"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/reminder"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/serverapp"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/task"
	"github.com/tanmaystar-512/Smart-to-do-List/internal/telemetry"
)

func main() {
	cfg, err := config.Load("smarttodo.yml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.FromEnv(cfg)

	logger := log.Default()

	store, err := openStore(cfg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	events := telemetry.NewMemoryRepository()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Events: events,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if cfg.Reminders.Enabled {
		markers, err := reminder.NewMarkerStore(cfg.Storage.DataDir)
		if err != nil {
			log.Fatalf("open reminder markers: %v", err)
		}
		svc := reminder.NewService(store, markers, nil, cfg.Reminders.WindowHours, logger)
		svc.SetEvents(events)
		go svc.Run(context.Background(), time.Duration(cfg.Reminders.IntervalSeconds)*time.Second)
	}

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

func openStore(cfg *config.Config, logger *log.Logger) (task.Store, error) {
	if cfg.Storage.Driver == config.DriverSQLite {
		return task.OpenSQLiteStore(cfg.Storage.DBPath)
	}
	return task.NewFileStore(cfg.Storage.DataDir, logger)
}
