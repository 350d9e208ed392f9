package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/ucgmsim/nzgd-map/pkg/common/config"
	"github.com/ucgmsim/nzgd-map/pkg/common/database"
	"github.com/ucgmsim/nzgd-map/pkg/common/kafka"
	"github.com/ucgmsim/nzgd-map/pkg/common/logger"
	"github.com/ucgmsim/nzgd-map/pkg/common/middleware"
	"github.com/ucgmsim/nzgd-map/pkg/common/models"
	"github.com/ucgmsim/nzgd-map/pkg/correlation"
	"github.com/ucgmsim/nzgd-map/pkg/observability/metrics"
	"github.com/ucgmsim/nzgd-map/pkg/vs30"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to the NZGD database")
	}
	defer database.Close(db)

	catalog, err := correlation.Load(db, cfg.CorrelationConfigPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load correlation catalogs")
	}

	opts := []vs30.Option{vs30.WithSourceFilesBaseURL(cfg.SourceFilesBaseURL)}
	if cfg.CacheEnabled {
		opts = append(opts, vs30.WithCache(database.NewRedis(cfg), cfg.CacheTTL))
	}
	if cfg.EventsEnabled {
		producer := kafka.NewProducer(cfg)
		defer producer.Close()
		opts = append(opts, vs30.WithProducer(producer))
	}

	service := vs30.NewService(vs30.NewRepository(db), catalog, opts...)
	handler := vs30.NewHandler(service, models.CorrelationSelection{
		VsToVs30Correlation: cfg.DefaultVsToVs30Correlation,
		CPTToVsCorrelation:  cfg.DefaultCPTToVsCorrelation,
		SPTToVsCorrelation:  cfg.DefaultSPTToVsCorrelation,
		HammerType:          cfg.DefaultHammerType,
	})

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("NZGD map service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start nzgd map service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down NZGD map service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("NZGD map service forced to shutdown")
	}
	logger.Log.Info("NZGD map service stopped")
}
