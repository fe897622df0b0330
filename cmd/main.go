package main

import (
	"context"
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"httprgb/config"
	"httprgb/device"
	"httprgb/device/httprgb"
	"httprgb/homekit"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	settings, err := config.ReadSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read settings")
	}
	setupLogging(settings.LogLevel, settings.LogJson)

	appConfig, err := config.ReadAppConfig(settings.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Str("config", settings.ConfigFile).Int("accessories", len(appConfig.Accessories)).Msg("Starting httprgb")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	drivers, err := device.NewDrivers(appConfig, httprgb.NewHttpClient(settings.HttpTimeout), registry, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create drivers")
	}
	bridge, err := homekit.NewBridge(
		lo.Map(drivers, func(driver *httprgb.Driver, _ int) homekit.Driver { return driver }),
		settings.HapStore, settings.HapPin, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create homekit bridge")
	}
	refresher := device.NewRefresher(drivers, settings.PollInterval, log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return bridge.Run(ctx) })
	eg.Go(func() error { return refresher.Run(ctx) })
	eg.Go(func() error { return startHttpServer(ctx, settings.MetricsAddr, registry) })

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("Stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Stopped")
}

func startHttpServer(ctx context.Context, addr string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       1500 * time.Millisecond,
		ReadHeaderTimeout: 500 * time.Millisecond,
		WriteTimeout:      20 * time.Second,
	}
	go func() {
		<-ctx.Done()
		log.Info().Msg("Received signal to shut down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Could not shut down http server cleanly")
		}
	}()
	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func setupLogging(level string, useJson bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if useJson {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
