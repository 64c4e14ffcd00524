package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"calendar-order-api/internal/cache"
	"calendar-order-api/internal/config"
	"calendar-order-api/internal/database"
	"calendar-order-api/internal/events"
	"calendar-order-api/internal/features"
	"calendar-order-api/internal/gateway"
	"calendar-order-api/internal/handler"
	"calendar-order-api/internal/middleware"
	"calendar-order-api/internal/service"
	tlsconfig "calendar-order-api/internal/tls"
	"calendar-order-api/internal/tracing"
)

func main() {
	configFile := flag.String("config", "", "Path to JSON config file")
	port := flag.String("port", "", "Server port (overrides config)")
	dbPath := flag.String("db", "", "Database file path (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize tracing
	if _, err := tracing.InitTracing(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: "calendar-order-api",
		Environment: cfg.Tracing.Environment,
	}); err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracing: %v", err)
		}
	}()

	// Initialize database
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize grid cache: Redis when configured, in-memory otherwise
	var gridCache cache.Cache
	if cfg.Cache.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		gridCache = redisCache
		log.Printf("Grid cache: redis (%s)", cfg.Cache.RedisAddr)
	} else {
		gridCache = cache.NewInMemoryCache()
		log.Printf("Grid cache: in-memory")
	}

	// Feature flags
	flags := features.NewManager()
	flags.Register(features.FeatureCacheEnabled, cfg.Cache.Enabled, "serve month grids from the grid cache")
	flags.Register(features.FeatureEventHooksEnabled, true, "publish order/offer/grid events")
	flags.Register(features.FeatureSubmissionForwarding, cfg.Gateway.Endpoint != "", "forward placed orders to the upstream gateway")

	// Events
	eventManager := events.NewManager(true)
	defer eventManager.Shutdown()
	eventManager.Subscribe(events.EventOrderPlaced, func(ctx context.Context, event events.Event) error {
		if data, ok := event.Data.(events.OrderPlacedData); ok {
			log.Printf("Order placed: %s for %s", data.Order.ID, data.Order.Date)
		}
		return nil
	})

	// Upstream submission gateway
	var submitter gateway.Submitter
	if cfg.Gateway.Endpoint != "" {
		submitter = gateway.NewClient(cfg.Gateway.Endpoint)
		log.Printf("Submission gateway: %s", cfg.Gateway.Endpoint)
	}

	// Initialize service
	svc := service.NewService(db, service.Options{
		Cache:     gridCache,
		Events:    eventManager,
		Flags:     flags,
		Submitter: submitter,
	})

	// Initialize handlers
	h := handler.NewHandlerWithOptions(svc, handler.NewHandlerOptions{
		MaxBodySize: cfg.Security.MaxRequestBodySize,
	})

	// Initialize rate limiter
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.Rate, time.Duration(cfg.RateLimit.Window)*time.Second)
		defer rateLimiter.Stop()
	}

	// Setup router
	r := chi.NewRouter()

	// Middleware (order matters)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TracingMiddleware())

	if rateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.Security.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/{month}", h.GetMonthGrid)
	})

	r.Route("/offers", func(r chi.Router) {
		r.Post("/days", h.UpsertOfferDays)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/{order_id}", h.GetOrder)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Configure TLS if enabled
	var tlsCfg *tls.Config
	if cfg.Server.EnableTLS {
		tlsCfg, err = tlsconfig.LoadTLSConfig(tlsconfig.Config{
			CertFile: cfg.Server.CertFile,
			KeyFile:  cfg.Server.KeyFile,
		})
		if err != nil {
			log.Fatalf("Failed to load TLS configuration: %v", err)
		}

		if cfg.Server.CertFile == "" || cfg.Server.KeyFile == "" {
			log.Println("WARNING: No certificate files provided, using self-signed certificate for development")
		}
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	protocol := "HTTP"
	if cfg.Server.EnableTLS {
		protocol = "HTTPS"
	}
	log.Printf("Starting %s server on %s", protocol, addr)
	log.Printf("Database: %s", cfg.Database.Path)
	if cfg.RateLimit.Enabled {
		log.Printf("Rate limit: %d requests per %d seconds", cfg.RateLimit.Rate, cfg.RateLimit.Window)
	}

	server := &http.Server{
		Addr:      addr,
		Handler:   r,
		TLSConfig: tlsCfg,
	}

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	if cfg.Server.EnableTLS {
		// Certificates already live in TLSConfig, so the file arguments stay empty.
		err = server.ListenAndServeTLS("", "")
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
