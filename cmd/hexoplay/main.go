// Command hexoplay plays a demo patch through the default audio device
// while sweeping one of its parameters.
//
// Usage:
//
//	hexoplay [flags]
//
// Examples:
//
//	hexoplay -patch noise
//	hexoplay -patch seq -tempo 140 -duration 30s
//	hexoplay -patch sine -metrics :9090 -debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/algo-hexsynth/dsp/engine"
	"github.com/cwbudde/algo-hexsynth/internal/demo"
	"github.com/gordonklaus/portaudio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
}

func main() {
	patchName := flag.String("patch", "sine", "demo patch to play")
	configPath := flag.String("config", "", "YAML engine config")
	sampleRate := flag.Float64("sr", 0, "sample rate override (0 keeps the config value)")
	frames := flag.Int("frames", 256, "frames per audio buffer")
	tempo := flag.Float64("tempo", 120, "sequencer tempo in BPM")
	sweepHz := flag.Float64("sweep-hz", 0.1, "sweep LFO rate in Hz (0 disables)")
	duration := flag.Duration("duration", 0, "stop after this long (0 plays until interrupted)")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hexoplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays a demo patch (%v) in real time.\n\nFlags:\n", demo.Names())
		flag.PrintDefaults()
	}

	flag.Parse()
	initLogger(*debug)

	cfg := engine.DefaultConfig()

	if *configPath != "" {
		loaded, err := engine.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config", "err", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if *sampleRate > 0 {
		cfg.SampleRate = *sampleRate
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)

		defer cancel()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, reg)
	}

	err := play(ctx, playOptions{
		patch:   *patchName,
		config:  cfg,
		frames:  *frames,
		tempo:   *tempo,
		sweepHz: *sweepHz,
		reg:     reg,
	})
	if err != nil {
		logger.Error("play", "patch", *patchName, "err", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	logger.Info("serving metrics", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server", "err", err)
	}
}

func play(ctx context.Context, opts playOptions) error {
	pl, err := newPlayer(opts)
	if err != nil {
		return err
	}
	defer pl.close()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	defer func() {
		if err := portaudio.Terminate(); err != nil {
			logger.Warn("portaudio terminate", "err", err)
		}
	}()

	stream, err := portaudio.OpenDefaultStream(0, 2, pl.sampleRate, opts.frames, pl.callback)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}

	logger.Info("playing",
		"patch", opts.patch,
		"sample_rate", stream.Info().SampleRate,
		"latency", stream.Info().OutputLatency)

	pl.control(ctx, controlInterval)

	return stream.Stop()
}
