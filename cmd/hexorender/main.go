// Command hexorender renders a demo patch offline to a WAV file.
//
// Usage:
//
//	hexorender [flags]
//
// Examples:
//
//	hexorender -patch sine -o ~/sine.wav
//	hexorender -patch noise -seconds 4 -sweep
//	hexorender -patch seq -config ~/.hexsynth.yaml -debug
//	hexorender -list
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cwbudde/algo-hexsynth/dsp/engine"
	"github.com/cwbudde/algo-hexsynth/internal/demo"
	"github.com/mitchellh/go-homedir"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func main() {
	patchName := flag.String("patch", "sine", "demo patch to render")
	output := flag.String("o", "hexsynth.wav", "output WAV file")
	seconds := flag.Float64("seconds", 2, "render length in seconds")
	sampleRate := flag.Float64("sr", 0, "sample rate override (0 keeps the config value)")
	block := flag.Int("block", 256, "host block size in frames")
	bits := flag.Int("bits", 16, "WAV bit depth (16 or 24)")
	tempo := flag.Float64("tempo", 120, "sequencer tempo in BPM")
	sweep := flag.Bool("sweep", false, "sweep the demo parameter across the render")
	configPath := flag.String("config", "", "YAML engine config")
	list := flag.Bool("list", false, "list demo patches")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hexorender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a demo patch to a WAV file.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	initLogger(*debug)

	if *list {
		printDemos()
		return
	}

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

	path, err := homedir.Expand(*output)
	if err != nil {
		logger.Error("expand output path", "path", *output, "err", err)
		os.Exit(1)
	}

	res, err := render(renderOptions{
		patch:  *patchName,
		config: cfg,
		frames: int(*seconds * cfg.SampleRate),
		block:  *block,
		tempo:  *tempo,
		sweep:  *sweep,
	})
	if err != nil {
		logger.Error("render", "patch", *patchName, "err", err)
		os.Exit(1)
	}

	if err := writeWAV(path, res, *bits); err != nil {
		logger.Error("write wav", "path", path, "err", err)
		os.Exit(1)
	}

	logger.Info("rendered",
		"patch", *patchName,
		"path", path,
		"frames", res.frames,
		"sample_rate", res.sampleRate,
		"peak", res.peak,
		"clipped", res.clipped)
}

func printDemos() {
	var b strings.Builder
	for _, name := range demo.Names() {
		d, _ := demo.Lookup(name)
		fmt.Fprintf(&b, "%-8s %s\n", name, d.Help)
	}

	fmt.Print(b.String())
}
