package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"netcheck/internal/config"
	"netcheck/internal/logging"
	"netcheck/internal/metrics"
	"netcheck/internal/monitor"
	"netcheck/internal/server"
	"netcheck/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		addr       = flag.String("addr", "", "address for the status server (overrides config)")
	)
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("load env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logger, closer, err := logging.New(logging.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("initialise logging: %v", err)
	}
	defer closer.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := storage.NewRecordStore(cfg.HistoryLimit)
	live := server.NewLiveFeed()
	recorder := metrics.NewRecorder(registry)

	prober := monitor.NewProber(time.Duration(cfg.ProbeTimeoutSeconds)*time.Second, nil)
	engine := monitor.NewEngine(prober, cfg.Endpoints())
	mon := monitor.New(engine, time.Duration(cfg.CheckIntervalSeconds)*time.Second, logger, store, recorder, live)

	srv := server.New(cfg.ListenAddr, store, live, registry, logger, cfg.HistoryLimit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx)
	})
	g.Go(func() error {
		logger.Infof("Status server listening on %s", cfg.ListenAddr)
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("netcheck exited")
		closer.Close()
		os.Exit(1)
	}
}
