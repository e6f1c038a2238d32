package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/blog-engagement/internal/config"
	apihttp "github.com/pribylovaa/blog-engagement/internal/http"
	"github.com/pribylovaa/blog-engagement/internal/http/handlers"
	"github.com/pribylovaa/blog-engagement/internal/metrics"
	"github.com/pribylovaa/blog-engagement/internal/posts"
	"github.com/pribylovaa/blog-engagement/internal/service"
	"github.com/pribylovaa/blog-engagement/internal/storage"
	"github.com/pribylovaa/blog-engagement/internal/storage/mongo"
	"github.com/pribylovaa/blog-engagement/internal/storage/redis"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting engagement-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	initCtx, initCancel := context.WithTimeout(rootCtx, 15*time.Second)
	db, err := mongo.New(initCtx, cfg)
	initCancel()
	if err != nil {
		log.Error("mongo_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := db.Close(ctx); cerr != nil {
			log.Warn("mongo_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	log.Info("mongo_connected")

	var tokens storage.ViewTokens = db
	if cfg.Views.Dedup == config.DedupRedis {
		initCtx, initCancel := context.WithTimeout(rootCtx, 5*time.Second)
		rv, err := redis.New(initCtx, cfg.Redis.URL, "")
		initCancel()
		if err != nil {
			log.Error("redis_init_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if cerr := rv.Close(); cerr != nil {
				log.Warn("redis_close_failed", slog.String("err", cerr.Error()))
			}
		}()

		tokens = rv
		log.Info("redis_connected")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(db, tokens, m, *cfg)

	var idx handlers.PostsIndex
	if cfg.Posts.Dir != "" {
		idx = posts.New(cfg.Posts)
	}

	opts := apihttp.Options{
		Logger:         log,
		Timeout:        cfg.Timeouts.Service,
		BasePath:       cfg.HTTP.BasePath,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}

	apiHandler := apihttp.NewRouter(handlers.New(svc, idx, cfg), opts)

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
