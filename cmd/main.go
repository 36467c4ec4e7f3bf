package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vtt-bridge/internal/bridge"
	"vtt-bridge/internal/infrastructure/config"
	"vtt-bridge/internal/infrastructure/logger"
	"vtt-bridge/internal/infrastructure/server"
)

func main() {
	ctx := context.Background()
	sctx := WithSignal(ctx)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lCfg := logger.NewDefaultConfig()
	lCfg.Level = logger.ParseLevel(cfg.LogLevel)
	lCfg.Format = cfg.LogFormat
	lCfg.Output = cfg.LogOutput
	lCfg.FilePath = cfg.LogFile
	log := logger.NewLogrusLogger(lCfg)

	registry := bridge.NewRegistry(log)
	dispatcher := bridge.NewDispatcher(registry, log, cfg.CallTimeout)

	router := InitRouter(dispatcher, cfg, log)
	httpSrv := server.NewHTTPServer(cfg.ListenAddr, router)

	app := newApplication(log, httpSrv, registry)
	if err := app.Run(sctx); err != nil {
		log.Errorf("failed to run application: %v", err)
	}
}

type Application struct {
	logger   logger.Logger
	httpSrv  server.Server
	registry *bridge.Registry
}

func newApplication(
	log logger.Logger,
	httpSrv *server.HTTPServer,
	registry *bridge.Registry,
) *Application {
	return &Application{
		logger:   log.WithField("app", "vtt-bridge"),
		httpSrv:  httpSrv,
		registry: registry,
	}
}

func (app *Application) Run(ctx context.Context) error {
	eg := errgroup.Group{}

	eg.Go(func() error {
		return app.httpSrv.Start(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer cancel()

		// Disconnect clients first so in-flight calls fail fast instead
		// of waiting out their timeouts during shutdown.
		app.registry.CloseAll()

		return app.httpSrv.Stop(shutdownCtx)
	})

	return eg.Wait()
}

func WithSignal(pctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(pctx)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

		<-sigc

		cancel()
	}()

	return ctx
}
