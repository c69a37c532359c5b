package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"hems-sim/internal/api"
	"hems-sim/internal/config"
	"hems-sim/internal/live"
	"hems-sim/internal/live/ws"
	"hems-sim/internal/logging"
	"hems-sim/internal/metrics"
	"hems-sim/internal/mqtt"
	"hems-sim/internal/runcache"
	"hems-sim/internal/synth"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML or TOML config (optional)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if wd, err := os.Getwd(); err == nil {
		log.WithFields(logrus.Fields{
			"wd":          wd,
			"presets_dir": cfg.PresetsDir,
			"env":         cfg.Server.Env,
		}).Info("starting")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	cache := runcache.New(cfg.Cache.TTL, time.Minute)
	defer cache.Close()

	var pub mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.WithError(err).WithField("broker", cfg.MQTT.Broker).Warn("mqtt disabled")
		} else {
			pub = p
			defer pub.Close()
			log.WithField("broker", cfg.MQTT.Broker).Info("publishing to mqtt")
		}
	}

	hub := ws.NewHub(log)
	feed := live.NewFeed(live.Options{
		Interval:   cfg.Live.Interval,
		BufferSize: cfg.Live.BufferSize,
		Source:     synth.NewLiveSource(cfg.Live.Seed, cfg.Live.BaseMW, cfg.Live.NoiseMW),
		Hub:        hub,
		Publisher:  pub,
		Metrics:    m,
		Log:        log,
	})
	go func() {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("live feed stopped")
		}
	}()

	router := api.NewRouter(api.Deps{
		Config:    cfg,
		Log:       log,
		Metrics:   m,
		Cache:     cache,
		Feed:      feed,
		Hub:       hub,
		Publisher: pub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// loadConfig reads path if given, otherwise the built-in defaults. The
// environment overrides both.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
