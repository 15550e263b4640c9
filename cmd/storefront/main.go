package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/ratelimit"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
	"github.com/aaravmahajanofficial/storefront/internal/tracing"
	"github.com/aaravmahajanofficial/storefront/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const purgeInterval = time.Hour

// backend is the session store picked by the configured driver, together
// with what it needs closed on shutdown.
type backend struct {
	store   session.Store
	limiter service.LoginLimiter
	closers []io.Closer
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Session.Driver {
	case "redis":
		client, err := cache.NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			return nil, err
		}

		return &backend{
			store:   session.NewRedisStore(cache.NewRedisCache(client, &cfg.Cache)),
			limiter: ratelimit.NewLoginLimiter(client, cfg.RateConfig),
			closers: []io.Closer{client},
		}, nil
	case "postgres":
		store, err := session.OpenPostgres(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}

		go purgeSessions(ctx, store)

		return &backend{store: store, closers: []io.Closer{store}}, nil
	case "file":
		store, err := session.NewFileStore(cfg.Session.StateDir)
		if err != nil {
			return nil, err
		}

		return &backend{store: store}, nil
	}

	return nil, fmt.Errorf("unsupported session driver %q", cfg.Session.Driver)
}

func purgeSessions(ctx context.Context, store *session.PostgresStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("⚠️ Failed to purge expired sessions", slog.String("error", err.Error()))
				continue
			}

			slog.Info("Purged expired sessions", slog.Int64("count", n))
		}
	}
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Session store
	sessions, err := openBackend(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error opening the session store", slog.String("driver", cfg.Session.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		for _, c := range sessions.closers {
			if err := c.Close(); err != nil {
				slog.Error("⚠️ Error closing session store", slog.String("error", err.Error()))
			}
		}
		slog.Info("✅ Session store closed")
	}()

	shop := shopapi.New(&cfg.Upstream)

	endpoints := &health.Endpoints{}
	var checker service.PaymentAPI = shop
	if cfg.Stripe.VerifyDirect && cfg.Stripe.APIKey != "" {
		stripeClient := stripe.NewClient(cfg.Stripe.APIKey)
		checker = stripeClient
		endpoints.Stripe = stripeClient
	}

	healthHandler, err := health.NewHealthHandler(cfg, endpoints)
	if err != nil {
		slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	manager := session.NewManager(sessions.store, &cfg.Session)
	authService := service.NewAuthService(shop, sessions.limiter)
	homeService := service.NewHomeService(shop)
	productService := service.NewProductService(shop)
	resolver := service.NewCheckoutResolver(checker, cfg.Checkout.ResultDismissAfter)

	homeHandler := handlers.NewHomeHandler(homeService)
	catalogHandler := handlers.NewCatalogHandler(shop)
	productHandler := handlers.NewProductHandler(productService, shop)
	cartHandler := handlers.NewCartHandler(shop, service.CartOptions{KeepServerQuantity: cfg.Cart.KeepServerQuantity})
	checkoutHandler := handlers.NewCheckoutHandler(resolver)
	userHandler := handlers.NewUserHandler(authService, manager)
	adminHandler := handlers.NewAdminHandler(shop).WithUploadLimit(cfg.MaxUploadSize)
	sessionMiddleware := middleware.NewSessionMiddleware(manager)

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
		slog.String("session_driver", cfg.Session.Driver),
		slog.String("upstream", shop.BaseURL()))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /{$}", homeHandler.Home())
	routerMux.HandleFunc("GET /home", homeHandler.Home())
	routerMux.HandleFunc("GET /collections", catalogHandler.Collections())
	routerMux.HandleFunc("GET /products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /products/{id}/cart", middleware.RequireAuth(productHandler.AddToCart()))
	routerMux.HandleFunc("GET /cart", middleware.RequireAuth(cartHandler.GetCart()))
	routerMux.HandleFunc("PUT /cart/lines", middleware.RequireAuth(cartHandler.UpdateLine()))
	routerMux.HandleFunc("DELETE /cart/lines", middleware.RequireAuth(cartHandler.RemoveLine()))
	routerMux.HandleFunc("POST /cart/checkout", middleware.RequireAuth(cartHandler.Checkout()))
	routerMux.HandleFunc("GET /checkout/result", middleware.RequireAuth(checkoutHandler.Result()))
	routerMux.HandleFunc("POST /login", userHandler.Login())
	routerMux.HandleFunc("POST /register", userHandler.Register())
	routerMux.HandleFunc("POST /logout", userHandler.Logout())
	routerMux.HandleFunc("GET /me", userHandler.Me())
	routerMux.HandleFunc("GET /admin/packages", middleware.RequireAdmin(adminHandler.ListProducts()))
	routerMux.HandleFunc("POST /admin/packages", middleware.RequireAdmin(adminHandler.CreateProduct()))
	routerMux.HandleFunc("PUT /admin/packages/{id}", middleware.RequireAdmin(adminHandler.UpdateProduct()))
	routerMux.HandleFunc("POST /admin/packages/{id}/delete", middleware.RequireAdmin(adminHandler.RequestDelete()))
	routerMux.HandleFunc("POST /admin/packages/delete/confirm", middleware.RequireAdmin(adminHandler.ConfirmDelete()))
	routerMux.HandleFunc("DELETE /admin/packages/delete", middleware.RequireAdmin(adminHandler.CancelDelete()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = sessionMiddleware.Load(routerMux)
	handler = metrics.Middleware(routerMux, handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
