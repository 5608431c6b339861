package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"preview-engine/internal/config"
	"preview-engine/internal/extract"
	"preview-engine/internal/handlers"
	"preview-engine/internal/logging"
	"preview-engine/internal/middleware"
	"preview-engine/internal/previewer"
	"preview-engine/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	startTime := time.Now()
	startup.LogStartup()

	cfg, err := config.Load()
	if err != nil {
		startup.LogFatal("configuration error: %v", err)
	}

	if err := extract.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using pure-Go image decoding: %v", err)
	}
	defer extract.ShutdownVips()

	p := previewer.New(previewer.Options{
		CacheDir:        cfg.CacheDir,
		MemoryCacheSize: cfg.MemoryCacheSize,
		TTL:             cfg.TTL(),
		MaxWorkers:      cfg.MaxWorkers,
	})

	h := handlers.New(p)
	router := setupRouter(h)
	startup.LogRoutes(router)

	handler := middleware.Logger(middleware.Metrics(router))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		startup.LogServerStarted(cfg.ListenAddr, time.Since(startTime))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		startup.LogShutdownInitiated(ctx.Err().Error())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("HTTP server shutdown: %v", err)
		}
		if err := p.Shutdown(); err != nil {
			logging.Error("previewer shutdown: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("server error: %v", err)
		os.Exit(1)
	}
	startup.LogShutdownComplete()
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/preview", h.GetPreview).Methods("GET")
	api.HandleFunc("/preload", h.Preload).Methods("POST")
	api.HandleFunc("/cache/stats", h.CacheStats).Methods("GET")
	api.HandleFunc("/cache", h.ClearCache).Methods("DELETE")

	return r
}
