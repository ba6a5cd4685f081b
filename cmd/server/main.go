package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/disease-prediction-server/internal/api"
	"github.com/disease-prediction-server/internal/catalog"
	"github.com/disease-prediction-server/internal/config"
	"github.com/disease-prediction-server/internal/history"
	"github.com/disease-prediction-server/internal/model"
	"github.com/disease-prediction-server/internal/service"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	// Startup is all-or-nothing: any catalog or model failure below is
	// fatal and the process never accepts traffic.
	symptoms, err := catalog.LoadSymptoms(cfg.Data.SymptomsPath)
	if err != nil {
		logger.Fatalf("Failed to load symptom catalog: %v", err)
	}
	diseases, err := catalog.LoadDiseases(cfg.Data.DiseasesPath)
	if err != nil {
		logger.Fatalf("Failed to load disease catalog: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"symptoms": symptoms.Len(),
		"diseases": diseases.Len(),
	}).Info("Catalogs loaded")

	if err := model.InitRuntime(cfg.Model.SharedLibraryPath); err != nil {
		logger.Fatalf("Failed to initialize ONNX runtime: %v", err)
	}
	defer model.DestroyRuntime()

	classifiers, err := model.LoadEnsemble(&cfg.Model, symptoms.Len(), diseases.Len())
	if err != nil {
		logger.Fatalf("Failed to load classifiers: %v", err)
	}
	defer func() {
		for _, clf := range classifiers {
			clf.Close()
		}
	}()
	logger.WithField("classifiers", len(classifiers)).Info("Ensemble models loaded")

	predictor, err := service.NewEnsemblePredictor(diseases.Len(), classifiers...)
	if err != nil {
		logger.Fatalf("Failed to build ensemble predictor: %v", err)
	}

	var opts []service.PredictionServiceOption
	if cfg.Cache.Enabled {
		opts = append(opts, service.WithResultCache(cfg.Cache.Size, cfg.Cache.TTL))
	}
	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.DBPath)
		if err != nil {
			logger.Fatalf("Failed to open history store: %v", err)
		}
		defer store.Close()
		opts = append(opts, service.WithHistory(store))
	}

	prediction := service.NewPredictionService(
		logger,
		service.NewFeatureVectorBuilder(symptoms),
		predictor,
		service.NewResultEnricher(diseases),
		opts...,
	)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting disease prediction server")

	server := api.NewServer(cfg, logger, symptoms, prediction)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}

// newLogger builds the application logger from configuration.
func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
