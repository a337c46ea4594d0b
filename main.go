package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"beqc/adapters/predict"
	"beqc/adapters/sqlite"
	"beqc/app"
	"beqc/internal/config"
	"beqc/internal/lookup"
	"beqc/internal/metrics"
	"beqc/ports"
	"beqc/ui"
)

var version = "dev"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := sqlite.Open(cfg.Paths.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("failed to open run history database")
	}
	defer db.Close()

	catalog, err := lookup.Load(cfg.Paths.LookupDir)
	if err != nil {
		log.WithField("lookup_dir", cfg.Paths.LookupDir).WithError(err).Fatal("failed to load lookup tables")
	}

	m := metrics.New()
	service := app.NewQCService(buildPredictor(cfg), sqlite.NewRunRepository(db), m, app.Config{
		ModelDir: cfg.Paths.ModelDir,
		History:  cfg.History.Enabled,
	})

	uiApp, err := ui.NewApp(service, catalog, m, ui.Config{
		Port:         cfg.Server.Port,
		HistoryLimit: cfg.History.Limit,
		Version:      version,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create dashboard")
	}

	log.WithFields(log.Fields{
		"port":      cfg.Server.Port,
		"predictor": cfg.Predictor.Mode,
		"model_dir": cfg.Paths.ModelDir,
	}).Info("BE QC dashboard ready")
	log.Fatal(uiApp.Start())
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.WithField("LOG_LEVEL", raw).Warn("unknown log level, using info")
			return
		}
		log.SetLevel(level)
	}
}

func buildPredictor(cfg *config.Config) ports.Predictor {
	switch cfg.Predictor.Mode {
	case config.ModeRemote:
		predictor, err := predict.NewRemotePredictor(predict.RemoteConfig{
			BaseURL: cfg.Predictor.ServiceURL,
			Token:   cfg.Predictor.ServiceToken,
			Timeout: cfg.Predictor.Timeout,
		})
		if err != nil {
			log.WithError(err).Fatal("failed to configure remote predictor")
		}
		return predictor
	default:
		return predict.NewQuantilePredictor(cfg.Predictor.BandCoverage)
	}
}
