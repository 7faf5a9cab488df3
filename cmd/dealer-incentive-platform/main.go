package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/handlers"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/cache"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/config"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/health"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	repository "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/repositories"
	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/telemetry"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/pkg/sendGrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("Failed to initialise tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	inventoryCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	// Inventory-updated broadcast: durable marker + pub/sub fan-out + local bus, then webhooks
	bus := events.NewBus()
	defer bus.Close()

	broadcaster := events.NewRedisBroadcaster(redisClient, bus, cfg.Inventory.BroadcastChannel, cfg.Inventory.LastUpdateKey, cfg.Inventory.VersionKey)
	webhooks := events.NewWebhookNotifier(cfg.Inventory.WebhookURLs, cfg.Inventory.WebhookTimeout)
	publisher := events.Fanout{broadcaster, webhooks}

	go func() {
		if err := broadcaster.Run(ctx); err != nil {
			slog.Error("Inventory event relay stopped", slog.String("error", err.Error()))
		}
	}()

	var emailService sendGrid.EmailService
	if cfg.SendGrid.Enabled() {
		emailService = sendGrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid API key not set, decision emails are disabled")
	}

	reorderLevel := cfg.Inventory.DefaultReorderLevel

	notificationService := service.NewNotificationService(repos.Notification, repos.User, emailService)
	inventoryService := service.NewInventoryService(repos.Product, inventoryCache, broadcaster, cfg.Inventory, cfg.Cache.DefaultTTL)
	productService := service.NewProductService(repos.Product, publisher, reorderLevel)
	requestService := service.NewPurchaseRequestService(repos.PurchaseRequest, repos.Product, rateLimiter, notificationService, publisher, reorderLevel)

	inventoryHandler := handlers.NewInventoryHandler(inventoryService, bus)
	productHandler := handlers.NewProductHandler(productService)
	requestHandler := handlers.NewPurchaseRequestHandler(requestService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Marker: broadcaster})
	if err != nil {
		slog.Error("Failed to create health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey))
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	clientOnly := middleware.RequireRole(models.RoleClient)

	authed := func(h http.HandlerFunc) http.HandlerFunc { return authMiddleware.Authenticate(h) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return authMiddleware.Authenticate(adminOnly(h)) }
	client := func(h http.HandlerFunc) http.HandlerFunc { return authMiddleware.Authenticate(clientOnly(h)) }

	slog.Info("Storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/inventory", authed(inventoryHandler.ListInventory()))
	routerMux.HandleFunc("GET /api/v1/inventory/last-update", authed(inventoryHandler.LastUpdate()))
	routerMux.HandleFunc("GET /api/v1/inventory/events", authed(inventoryHandler.Events()))
	routerMux.HandleFunc("POST /api/v1/products", admin(productHandler.CreateProduct()))
	routerMux.HandleFunc("POST /api/v1/products/client", client(productHandler.CreateClientProduct()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authed(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}/inventory", admin(productHandler.UpdateInventory()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}/client-inventory", client(productHandler.UpdateClientInventory()))
	routerMux.HandleFunc("POST /api/v1/products/{id}/adjust", authed(productHandler.AdjustStock()))
	routerMux.HandleFunc("POST /api/v1/purchase-requests", client(requestHandler.CreateRequest()))
	routerMux.HandleFunc("GET /api/v1/purchase-requests", authed(requestHandler.ListRequests()))
	routerMux.HandleFunc("GET /api/v1/purchase-requests/{id}", authed(requestHandler.GetRequest()))
	routerMux.HandleFunc("POST /api/v1/purchase-requests/{id}/approve", admin(requestHandler.Approve()))
	routerMux.HandleFunc("POST /api/v1/purchase-requests/{id}/reject", admin(requestHandler.Reject()))
	routerMux.HandleFunc("POST /api/v1/purchase-requests/{id}/complete", admin(requestHandler.Complete()))
	routerMux.HandleFunc("GET /api/v1/notifications", authed(notificationHandler.ListNotifications()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// Shutdown waits for connections to go idle, which an open event stream
	// never does on its own.
	server.RegisterOnShutdown(bus.Close)

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Warn("Failed to flush traces", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Warn("Failed to close redis client", slog.String("error", err.Error()))
	}
}
