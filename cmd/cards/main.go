package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	cloudstorage "cloud.google.com/go/storage"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/schikamarun/christmas-cards/internal/datasource"
	"github.com/schikamarun/christmas-cards/internal/handlers"
	"github.com/schikamarun/christmas-cards/internal/platform/config"
	pfirestore "github.com/schikamarun/christmas-cards/internal/platform/firestore"
	"github.com/schikamarun/christmas-cards/internal/platform/events"
	"github.com/schikamarun/christmas-cards/internal/platform/observability"
	"github.com/schikamarun/christmas-cards/internal/platform/requestctx"
	"github.com/schikamarun/christmas-cards/internal/platform/secrets"
	"github.com/schikamarun/christmas-cards/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger("cards")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("cards")
	ctx = requestctx.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx, config.WithSecretResolver(fetcher))
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("shutdown close error", zap.Error(err))
			}
		}
	}()

	src, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		logger.Warn("data source unavailable; serving embedded sample", zap.String("source", cfg.Data.Source), zap.Error(err))
		src = datasource.SampleSource{}
	}
	if closeSource != nil {
		closers = append(closers, closeSource)
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Data.Timeout)
	store, origin := datasource.LoadOrSample(loadCtx, src, logger.Named("datasource"))
	cancelLoad()
	logger.Info("card data loaded",
		zap.String("source", src.Name()),
		zap.String("origin", string(origin)),
		zap.Int("collections", store.Collections.Len()),
	)

	publisher, closePublisher, err := newPublisher(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialise event publisher", zap.Error(err))
	}
	if closePublisher != nil {
		closers = append(closers, closePublisher)
	}

	cardService, err := services.NewCardService(services.CardServiceDeps{
		Store:     store,
		Origin:    origin,
		Publisher: publisher,
		Logger:    logger.Named("cards"),
	})
	if err != nil {
		logger.Fatal("failed to initialise card service", zap.Error(err))
	}

	pages, err := handlers.NewPageHandlers(cardService)
	if err != nil {
		logger.Fatal("failed to initialise page handlers", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfoFromEnv(envValues, cfg, startedAt)),
		handlers.WithHealthCardService(cardService),
	)

	router := handlers.NewRouter(
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(cfg.Firestore.ProjectID),
			observability.RecoveryMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			middleware.Compress(5),
		),
		handlers.WithCardRoutes(handlers.NewCardHandlers(cardService).Routes),
		handlers.WithDataRoutes(handlers.NewDataHandlers(cardService).Routes),
		handlers.WithPageRoutes(pages.Routes),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("christmas cards listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := cardService.Flush(shutdownCtx); err != nil {
		logger.Warn("card viewed events still pending at shutdown", zap.Error(err))
	}
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		return strings.TrimSpace(env[key])
	}

	project := lookup("CARDS_SECRETS_PROJECT_ID")
	if project == "" {
		project = lookup("CARDS_FIRESTORE_PROJECT_ID")
	}
	fallbackPath := lookup("CARDS_SECRET_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}

	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if project != "" {
		opts = append(opts, secrets.WithProject(project))
	}
	return secrets.NewFetcher(ctx, opts...)
}

// newSource builds the configured data source. The returned close func, when
// non-nil, releases the backing client.
func newSource(ctx context.Context, cfg config.Config) (datasource.Source, func() error, error) {
	switch cfg.Data.Source {
	case config.DataSourceHTTP:
		src, err := datasource.NewHTTPSource(cfg.Data.BaseURL,
			datasource.WithBearerToken(cfg.Data.Token),
			datasource.WithTimeout(cfg.Data.Timeout),
		)
		return src, nil, err
	case config.DataSourceDir:
		return datasource.NewDirSource(cfg.Data.Dir), nil, nil
	case config.DataSourceGCS:
		client, err := cloudstorage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("storage client: %w", err)
		}
		src, err := datasource.NewBucketSource(client, cfg.Data.Bucket, cfg.Data.Prefix)
		return src, client.Close, err
	case config.DataSourceFirestore:
		provider := pfirestore.NewProvider(cfg.Firestore)
		src, err := datasource.NewFirestoreSource(provider)
		return src, provider.Close, err
	default:
		return datasource.SampleSource{}, nil, nil
	}
}

// newPublisher returns the Pub/Sub publisher when a topic is configured and a
// no-op publisher otherwise.
func newPublisher(ctx context.Context, cfg config.Config) (services.CardEventPublisher, func() error, error) {
	if strings.TrimSpace(cfg.Events.Topic) == "" {
		return events.NoopPublisher{}, nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.Events.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub client: %w", err)
	}
	topic := client.Topic(cfg.Events.Topic)
	publisher, err := events.NewPubSubPublisher(topic)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return publisher, func() error {
		topic.Stop()
		return client.Close()
	}, nil
}

func buildInfoFromEnv(env map[string]string, cfg config.Config, started time.Time) handlers.BuildInfo {
	version := strings.TrimSpace(env["CARDS_BUILD_VERSION"])
	if version == "" {
		version = "dev"
	}
	return handlers.BuildInfo{
		Version:     version,
		CommitSHA:   strings.TrimSpace(env["CARDS_BUILD_COMMIT_SHA"]),
		Environment: cfg.Environment,
		StartedAt:   started,
	}
}
