package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	brother "github.com/iwtcode/brotherAdapter"
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/adapters/handlers"
	"github.com/iwtcode/brotherAdapter/internal/adapters/repositories/postgres"
	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/metrics"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	"github.com/iwtcode/brotherAdapter/internal/middleware/swagger"
	"github.com/iwtcode/brotherAdapter/internal/services/brother_service"
	"github.com/iwtcode/brotherAdapter/internal/services/kafka"
	"github.com/iwtcode/brotherAdapter/internal/services/mqtt"
	"github.com/iwtcode/brotherAdapter/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		MetricsModule,
		ProducerModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		fx.Invoke(InvokePoller),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "BrotherAdapter")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
	fx.Invoke(func(lc fx.Lifecycle, logger *logging.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return logger.Close()
			},
		})
	}),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var MetricsModule = fx.Module("metrics_module",
	fx.Provide(metrics.New),
)

// ProvideSinks собирает включенные системы доставки снимков.
// Недоступный MQTT брокер не мешает запуску: снимки уходят в остальные системы.
func ProvideSinks(lc fx.Lifecycle, cfg *config.AppConfig, logger *logging.Logger) []interfaces.SnapshotSink {
	var sinks []interfaces.SnapshotSink
	if cfg.Kafka.Enable {
		sinks = append(sinks, kafka.NewKafkaProducer(cfg))
		logger.Info("Kafka sink enabled", "broker", cfg.Kafka.Broker, "topic", cfg.Kafka.Topic)
	}
	if cfg.MQTT.Enable {
		publisher, err := mqtt.NewPublisher(cfg, logger)
		if err != nil {
			logger.Error("MQTT sink disabled", "broker", cfg.MQTT.Broker, "error", err)
		} else {
			sinks = append(sinks, publisher)
			logger.Info("MQTT sink enabled", "broker", cfg.MQTT.Broker, "topic", cfg.MQTT.Topic)
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			var errs []error
			for _, sink := range sinks {
				if err := sink.Close(); err != nil {
					logger.Warn("Failed to close sink", "sink", sink.Name(), "error", err)
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	})
	return sinks
}

var ProducerModule = fx.Module("producer_module",
	fx.Provide(ProvideSinks),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(
		brother_service.NewClient,
		snapshot.New,
		brother_service.NewDeviceInfo,
		brother_service.NewBrotherService,
	),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig(cfg *config.AppConfig) *swagger.Config {
	return &swagger.Config{
		Enabled: cfg.SwaggerEnable,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokePoller запускает опрос станка вместе с приложением.
func InvokePoller(lc fx.Lifecycle, poller interfaces.PollingManager, client *brother.Client, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting CNC polling", "endpoint", client.Endpoint())
			return poller.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping CNC polling...")
			err := poller.Stop(ctx)
			if cerr := client.Close(); cerr != nil {
				logger.Warn("Failed to close CNC client", "error", cerr)
			}
			return err
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
