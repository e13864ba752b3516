package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopify-orders-gateway/internal/application"
	"shopify-orders-gateway/internal/application/webhook_handlers"
	"shopify-orders-gateway/internal/config"
	"shopify-orders-gateway/internal/infrastructure/api"
	"shopify-orders-gateway/internal/infrastructure/repository"
	shopifyinfra "shopify-orders-gateway/internal/infrastructure/shopify"
	"shopify-orders-gateway/internal/ports"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Missing credentials are reported once here; the affected endpoints
	// fail closed per request instead of crashing the process.
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("Required configuration absent, affected endpoints will fail closed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Token store
	var tokenStore ports.TokenStore
	switch cfg.TokenStore {
	case "mongo":
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())
		tokenStore = repository.NewMongoTokenStore(client.Database(cfg.MongoDatabase))
		logger.Info().Str("database", cfg.MongoDatabase).Msg("Using MongoDB token store")
	default:
		tokenStore = repository.NewFileTokenStore(cfg.TokenFile, logger)
		logger.Info().Str("file", cfg.TokenFile).Msg("Using file token store")
	}

	// Nonce store with background sweeper
	nonceStore := repository.NewMemoryNonceStore()
	nonceStore.StartSweeper(ctx, time.Minute, logger)

	// Shopify clients
	oauthClient := shopifyinfra.NewOAuth(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, cfg.ShopifyTimeout, logger)
	adminClient := shopifyinfra.NewAdminClient(cfg.ShopifyAPIVersion, cfg.ShopifyTimeout, logger)

	// Application services
	oauthService := application.NewOAuthService(
		application.OAuthConfig{
			APIKey:    cfg.ShopifyAPIKey,
			APISecret: cfg.ShopifyAPISecret,
			Scopes:    cfg.ShopifyScopes,
			AppURL:    cfg.AppURL,
		},
		oauthClient,
		nonceStore,
		tokenStore,
		logger,
	)
	ordersService := application.NewOrdersService(tokenStore, adminClient, cfg.AppURL, logger)

	// Webhook dispatcher and handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, tokenStore))

	// HTTP surface
	presenter := api.NewPresenter(cfg.ResponseLocale)
	router := api.NewRouter(api.RouterConfig{
		Auth:        api.NewAuthHandler(oauthService, logger),
		Orders:      api.NewOrdersHandler(ordersService, presenter, cfg.OrdersDefaultLimit, logger),
		Shops:       api.NewShopsHandler(ordersService, presenter, logger),
		Webhooks:    api.NewWebhookHandler(shopifyinfra.NewWebhookVerifier(cfg.ShopifyAPISecret), webhookDispatcher, logger),
		BearerToken: cfg.APIBearerToken,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting API server")
		logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
}
