package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	availability_adapter "crm-parser-service/internal/adapters/availability"
	"crm-parser-service/internal/adapters/browserfetcher"
	logger_adapter "crm-parser-service/internal/adapters/logger"
	postgres_adapter "crm-parser-service/internal/adapters/postgres"
	progress_adapter "crm-parser-service/internal/adapters/progress"
	rabbitmq_adapter "crm-parser-service/internal/adapters/rabbitmq"
	"crm-parser-service/internal/adapters/rest"
	vocabulary_adapter "crm-parser-service/internal/adapters/vocabulary"
	"crm-parser-service/internal/configs"
	"crm-parser-service/internal/constants"
	"crm-parser-service/internal/core/port"
	"crm-parser-service/internal/core/usecase"
	fluentlogger "crm-parser-service/pkg/fluent_logger"
	"crm-parser-service/pkg/postgres"
	"crm-parser-service/pkg/rabbitmq/rabbitmq_common"
	"crm-parser-service/pkg/rabbitmq/rabbitmq_producer"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	eventsProducer *rabbitmq_producer.Publisher
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingStorageAdapter, err := postgres_adapter.NewListingStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create listing storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing storage adapter: %w", err)
	}
	appLogger.Info("Postgres storage adapter initialized.", nil)

	// Очередь событий сверки опциональна: без RabbitMQ сервис работает
	// автономно, события просто не публикуются
	var eventsQueue port.ListingEventsQueuePort
	var eventsProducer *rabbitmq_producer.Publisher
	if appConfig.RabbitMQ.Enabled {
		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
		connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ListingEventsExchange,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,

			Logger: rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
		}
		eventsProducer, err = rabbitmq_producer.NewPublisher(producerCfg, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)

		eventsQueue, err = rabbitmq_adapter.NewRabbitMQListingEventsQueueAdapter(eventsProducer, constants.RoutingKeyListingEvents)
		if err != nil {
			appLogger.Error("Failed to create listing events queue adapter", err, nil)
			dbPool.Close()
			return nil, err
		}
	}

	vocabularyAdapter := vocabulary_adapter.NewJSONOptionsAdapter(appConfig.OptionsDir)
	progressAdapter := progress_adapter.NewMemoryStatusAdapter()

	availabilityChecker, err := availability_adapter.NewCollyCheckerAdapter()
	if err != nil {
		appLogger.Error("Failed to create availability checker", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create availability checker: %w", err)
	}

	// Источники обходятся в фиксированном порядке: krisha, затем olx
	krishaCfg := constants.KrishaConfig
	if appConfig.Sources.KrishaSearchURL != "" {
		krishaCfg.SearchURL = appConfig.Sources.KrishaSearchURL
	}
	olxCfg := constants.OlxConfig
	if appConfig.Sources.OlxSearchURL != "" {
		olxCfg.SearchURL = appConfig.Sources.OlxSearchURL
	}

	fetchers := []port.SourceFetcherPort{
		browserfetcher.NewBrowserFetcherAdapter(krishaCfg, appConfig.Chrome.Headless),
		browserfetcher.NewBrowserFetcherAdapter(olxCfg, appConfig.Chrome.Headless),
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	processListingUseCase := usecase.NewProcessListingUseCase(listingStorageAdapter, eventsQueue)
	runIngestionUseCase := usecase.NewRunIngestionUseCase(fetchers, processListingUseCase, vocabularyAdapter, progressAdapter)
	actualizeListingsUseCase := usecase.NewActualizeListingsUseCase(listingStorageAdapter, availabilityChecker, eventsQueue)
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. REST API Server ---
	parserHandlers := rest.NewParserHandlers(runIngestionUseCase, progressAdapter)
	actualizerHandlers := rest.NewActualizerHandlers(actualizeListingsUseCase)

	apiServer := rest.NewServer(appConfig.Rest.Port, parserHandlers, actualizerHandlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:         appConfig,
		dbPool:         dbPool,
		apiServer:      apiServer,
		fluentClient:   fluentClient,
		logger:         appLogger,
		eventsProducer: eventsProducer,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventsProducer != nil {
			if err := a.eventsProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
