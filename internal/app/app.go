package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/batchers"
	internalhttp "github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/http"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/models"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/configs"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/filestorages"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/shared/loggers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stats"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/stores"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/trackers"
	"github.com/michaelshelton/Monks-TAMS-Demo-sub001/internal/transports"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	tracker        *trackers.Tracker
	localTransport *transports.LocalTransport // nil in remote mode
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "qoe-telemetry").
		Logger()

	// Initialize session snapshot persistence
	fileStorage, err := filestorages.NewFileStorage(config.Storage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	sessionStore := stores.NewSessionStore(fileStorage)

	// Delivery attempts fan out to the active session's audit trail and to
	// the aggregate stats.
	recorder := trackers.NewSessionAttemptRecorder()
	deliveryStats := stats.NewDeliveryStats()
	attemptSink := transports.MultiAttemptSink(recorder, deliveryStats)

	// Initialize delivery transport
	var (
		flushSink      batchers.FlushSink
		localTransport *transports.LocalTransport
	)
	transportLogger := appLogger.With().Str(loggers.FieldComponent, "transport").Logger()
	switch config.Telemetry.Delivery.Mode {
	case "remote":
		flushSink = transports.NewHTTPTransport(
			config.Telemetry.Delivery.Endpoint,
			time.Duration(config.Telemetry.Delivery.TimeoutMs)*time.Millisecond,
			attemptSink,
			transportLogger,
		)
	case "local":
		localTransport = transports.NewLocalTransport(config.Telemetry.Delivery.LocalCapacity, attemptSink)
		flushSink = localTransport
	default:
		return nil, fmt.Errorf("unknown delivery mode %q", config.Telemetry.Delivery.Mode)
	}

	// Initialize batching
	retryPolicy := newRetryPolicy(config.Telemetry.Delivery.Retry)
	batcherLogger := appLogger.With().Str(loggers.FieldComponent, "batcher").Logger()
	batcher := batchers.NewBatcher(config.Telemetry.BatchSize, flushSink, retryPolicy, batcherLogger)

	// Initialize the tracker
	deviceInfo := models.NewDeviceInfo(
		config.Device.UserAgent,
		config.Device.ScreenWidth,
		config.Device.ScreenHeight,
		config.Device.ConnectionType,
		config.Device.EffectiveType,
	)
	trackerLogger := appLogger.With().Str(loggers.FieldComponent, "tracker").Logger()
	tracker := trackers.NewTracker(
		trackers.Config{
			SampleInterval: time.Duration(config.Telemetry.SampleIntervalMs) * time.Millisecond,
			FlushInterval:  time.Duration(config.Telemetry.FlushIntervalMs) * time.Millisecond,
			DeviceInfo:     deviceInfo,
		},
		batcher,
		recorder,
		sessionStore,
		trackerLogger,
	)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(tracker, sessionStore, deliveryStats, batcher, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:         config,
		appLogger:      appLogger,
		server:         server,
		tracker:        tracker,
		localTransport: localTransport,
	}, nil
}

func newRetryPolicy(cfg configs.RetryConfig) *batchers.RetryPolicy {
	if !cfg.Enabled {
		return nil
	}
	return &batchers.RetryPolicy{
		Enabled:           true,
		MaxAttempts:       cfg.MaxAttempts,
		BackoffInitial:    time.Duration(cfg.BackoffInitialMs) * time.Millisecond,
		BackoffMax:        time.Duration(cfg.BackoffMaxMs) * time.Millisecond,
		BackoffMultiplier: cfg.BackoffMultiplier,
		BackoffJitterPct:  cfg.BackoffJitterPct,
	}
}

// Tracker exposes the playback tracker for the embedding application.
func (app *App) Tracker() *trackers.Tracker {
	return app.tracker
}

// LocalDeliveryLog returns the bounded in-memory delivery log, or nil when
// the delivery mode is remote.
func (app *App) LocalDeliveryLog() *transports.LocalTransport {
	return app.localTransport
}

// Start starts the HTTP export server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting qoe-telemetry service on port %d (log_level=%s, delivery_mode=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Telemetry.Delivery.Mode)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application: the tracker first so the
// final flush happens while the transport is still usable, then the server.
func (app *App) Shutdown(ctx context.Context) error {
	app.appLogger.Info().Msg("Stopping tracker...")
	app.tracker.Stop()
	app.appLogger.Info().Msg("Tracker stopped")

	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	return nil
}
