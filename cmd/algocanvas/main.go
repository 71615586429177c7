// Package main is the algocanvas server: a REST and WebSocket API over live
// graph canvases, backed by a Python runner and a saved-graph library.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/algocanvas/algocanvas/internal/api"
	"github.com/algocanvas/algocanvas/internal/canvas"
	"github.com/algocanvas/algocanvas/internal/config"
	"github.com/algocanvas/algocanvas/internal/db"
	"github.com/algocanvas/algocanvas/internal/dbpool"
	"github.com/algocanvas/algocanvas/internal/playback"
	"github.com/algocanvas/algocanvas/internal/runner"
	"github.com/algocanvas/algocanvas/internal/session"
	"github.com/algocanvas/algocanvas/internal/store"
	"github.com/algocanvas/algocanvas/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Error("server exited")
		os.Exit(1)
	}
}

func run(log *logrus.Logger) error {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing LOG_LEVEL: %w", err)
	}

	log.SetLevel(level)

	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	policy, err := playback.ParseVisitedPolicy(cfg.VisitedPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log)

	lib, pool, err := openLibrary(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer lib.Close()

	var dbPinger api.Pinger
	if pool != nil {
		defer pool.Close()

		dbPinger = pool

		if err := db.NewNotifyBridge(log, pool, hub).Start(ctx); err != nil {
			return err
		}
	}

	exec := runner.NewPythonExecutor(log,
		runner.WithBinary(cfg.PythonBin),
		runner.WithTimeout(cfg.RunTimeout),
		runner.WithMaxRuns(cfg.MaxRuns),
		runner.WithOutputLimit(cfg.OutputLimit),
	)

	mgr := session.NewManager(session.Config{
		Canvas: canvas.Options{
			NodeRadius:    cfg.NodeRadius,
			EdgeTolerance: cfg.EdgeHitTolerance,
		},
		Speed:          cfg.DefaultSpeed,
		Policy:         policy,
		AutoStartDelay: session.DefaultAutoStartDelay,
		Executor:       exec,
		Publisher:      hub,
		Log:            log,
	}, cfg.SessionIdleTTL, cfg.MaxSessions)
	mgr.OnRemove(hub.CloseSession)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Hub:         hub,
		Sessions:    mgr,
		Library:     lib,
		DB:          dbPinger,
		PythonBin:   cfg.PythonBin,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	go hub.Run(hubCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mgr.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"library": lib.Backend(),
			"version": config.Version,
		}).Info("algocanvas listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Drain websocket clients before the HTTP server waits on their handlers.
		hub.Shutdown()
		mgr.Shutdown()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openLibrary selects the saved-graph backend. The pool is non-nil only for
// PostgreSQL and is owned by the caller.
func openLibrary(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.GraphStore, *dbpool.Pool, error) {
	switch cfg.StoreBackend() {
	case "postgres":
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		if err := db.MigratePostgres(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store.NewPGStore(pool, log), pool, nil

	case "sqlite":
		s, err := store.NewSQLiteStore(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite library: %w", err)
		}

		return s, nil, nil

	default:
		s, err := store.NewFileStore(cfg.GraphDir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening graph directory: %w", err)
		}

		return s, nil, nil
	}
}
