// Package main is the entry point for the menupress publishing server.
// It loads configuration, connects to services, wires the publishing
// pipeline, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"menupress/internal/assets"
	"menupress/internal/cache"
	"menupress/internal/compiler"
	"menupress/internal/config"
	"menupress/internal/database"
	"menupress/internal/engine"
	"menupress/internal/events"
	"menupress/internal/handlers"
	"menupress/internal/imaging"
	"menupress/internal/metrics"
	"menupress/internal/middleware"
	"menupress/internal/publish"
	"menupress/internal/router"
	"menupress/internal/storage"
	"menupress/internal/store"
	"menupress/internal/subdomain"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_domain", cfg.BaseDomain,
		"sites_dir", cfg.SitesDir,
	)

	if err := os.MkdirAll(cfg.SitesDir, 0o755); err != nil {
		slog.Error("failed to create sites directory", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the demo restaurant (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Image processing.
	imaging.Startup(0)
	defer imaging.Shutdown()

	// Metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	// Media originals are read from MEDIA_DIR, then from object storage.
	var source assets.Chain
	source = append(source, assets.DirSource{Root: cfg.MediaDir})

	var storageClient *storage.Client
	if cfg.HasS3() {
		storageClient, err = storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
	}
	if storageClient != nil {
		source = append(source, assets.NewS3Source(storageClient))
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media from MEDIA_DIR only and no artifact mirror")
	}

	// Site compiler.
	eng, err := engine.New()
	if err != nil {
		slog.Error("failed to load site theme", "error", err)
		os.Exit(1)
	}
	comp := compiler.New(cfg.SitesDir, eng, assets.NewPipeline(source, imaging.Vips{}))
	comp.SetRecorder(recorder)
	if storageClient != nil {
		comp.SetMirror(storageClient)
	}

	// Publishing orchestrator.
	svc := publish.New(
		store.NewWebsiteStore(db),
		store.NewDeploymentStore(db),
		subdomain.New(store.NewSubdomainStore(db)),
		comp,
		publish.Options{BaseDomain: cfg.BaseDomain, Scheme: cfg.LiveURLScheme, Timeout: cfg.PublishTimeout},
	)
	svc.SetRecorder(recorder)

	// Valkey (optional): cross-instance publish lock and status cache.
	if cfg.HasValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		svc.SetLocker(cache.NewLocker(valkeyClient, cfg.PublishTimeout+time.Minute))
		svc.SetStatusCache(cache.NewStatusCache(valkeyClient, cache.DefaultStatusTTL))
	} else {
		slog.Warn("valkey not configured, publish locking is per instance")
	}

	// NATS (optional): lifecycle events.
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		svc.SetEvents(pub)
	}

	limiter := middleware.NewRateLimiter(cfg.PublishRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(handlers.NewWebsites(svc), metrics.Handler(reg), limiter)

	// WriteTimeout must cover a full compile.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.PublishTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// In-flight publishes get as long as a compile may take.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PublishTimeout+10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
