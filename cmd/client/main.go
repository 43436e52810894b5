package main

import (
	"fmt"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/client"
	"github.com/MKhiriev/go-calendar-sync/internal/config"
	"github.com/MKhiriev/go-calendar-sync/internal/host"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/tui"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("calendar-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	backend, err := adapter.NewHTTPBackend(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create backend adapter")
	}

	kv, err := host.NewFileKV(cfg.Storage.StatePath)
	if err != nil {
		log.Fatal().Err(err).Msg("create local state store")
	}

	prober := host.NewProber(backend, cfg.Workers.ProbeInterval)

	ui, err := tui.New(backend, cfg.App.WindowCount, cfg.Adapter.HTTPAddress, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(backend, kv, prober, ui, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
