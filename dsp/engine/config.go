package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-hexsynth/dsp/window"
	"github.com/mitchellh/go-homedir"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and LoadConfig.
var ErrInvalidConfig = errors.New("engine: invalid config")

// Config defines the engine limits and service settings.
type Config struct {
	SampleRate        float64       `yaml:"sample_rate"`
	MaxAllocatedNodes int           `yaml:"max_allocated_nodes"`
	MaxSmoothers      int           `yaml:"max_smoothers"`
	SmoothingTimeMS   float64       `yaml:"smoothing_time_ms"`
	GraphQueueSize    int           `yaml:"graph_queue_size"`
	QuickQueueSize    int           `yaml:"quick_queue_size"`
	DropQueueSize     int           `yaml:"drop_queue_size"`
	MaxEvents         int           `yaml:"max_events"`
	DropInterval      time.Duration `yaml:"drop_interval"`
	MonitorInterval   time.Duration `yaml:"monitor_interval"`
	SpectrumSize      int           `yaml:"spectrum_size"`
	SpectrumWindow    string        `yaml:"spectrum_window"`

	Logger       *slog.Logger          `yaml:"-"`
	Registerer   prometheus.Registerer `yaml:"-"`
	DropObserver func(DropMsg)         `yaml:"-"`
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default engine limits.
func DefaultConfig() Config {
	return Config{
		SampleRate:        44100,
		MaxAllocatedNodes: 256,
		// 6 cell edge inputs in 6 directions plus a few UI knobs.
		MaxSmoothers:    40,
		SmoothingTimeMS: 10,
		GraphQueueSize:  256,
		QuickQueueSize:  1024,
		DropQueueSize:   1024,
		MaxEvents:       256,
		DropInterval:    250 * time.Millisecond,
		MonitorInterval: 10 * time.Millisecond,
		SpectrumSize:    1024,
		SpectrumWindow:  "hann",
	}
}

// Validate checks that all limits are usable.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate %v", ErrInvalidConfig, c.SampleRate)
	case c.MaxAllocatedNodes <= 0:
		return fmt.Errorf("%w: max_allocated_nodes %d", ErrInvalidConfig, c.MaxAllocatedNodes)
	case c.MaxSmoothers < 0:
		return fmt.Errorf("%w: max_smoothers %d", ErrInvalidConfig, c.MaxSmoothers)
	case c.SmoothingTimeMS < 0:
		return fmt.Errorf("%w: smoothing_time_ms %v", ErrInvalidConfig, c.SmoothingTimeMS)
	case c.GraphQueueSize <= 0 || c.QuickQueueSize <= 0 || c.DropQueueSize <= 0:
		return fmt.Errorf("%w: queue sizes must be positive", ErrInvalidConfig)
	case c.MaxEvents <= 0:
		return fmt.Errorf("%w: max_events %d", ErrInvalidConfig, c.MaxEvents)
	case c.DropInterval <= 0 || c.MonitorInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalidConfig)
	case c.SpectrumSize < 2:
		return fmt.Errorf("%w: spectrum_size %d", ErrInvalidConfig, c.SpectrumSize)
	}

	if _, err := window.ParseType(c.SpectrumWindow); err != nil {
		return fmt.Errorf("%w: spectrum_window: %w", ErrInvalidConfig, err)
	}

	return nil
}

// WithConfig replaces the whole config, keeping the service hooks
// (logger, registerer, drop observer) already set.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		logger, reg, obs := c.Logger, c.Registerer, c.DropObserver
		*c = cfg

		if c.Logger == nil {
			c.Logger = logger
		}

		if c.Registerer == nil {
			c.Registerer = reg
		}

		if c.DropObserver == nil {
			c.DropObserver = obs
		}
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(c *Config) {
		if sampleRate > 0 {
			c.SampleRate = sampleRate
		}
	}
}

// WithMaxAllocatedNodes caps the node table.
func WithMaxAllocatedNodes(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAllocatedNodes = n
		}
	}
}

// WithMaxSmoothers sets the size of the smoother pool.
func WithMaxSmoothers(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.MaxSmoothers = n
		}
	}
}

// WithSmoothingTime sets the parameter ramp duration in milliseconds.
func WithSmoothingTime(ms float64) Option {
	return func(c *Config) {
		if ms >= 0 {
			c.SmoothingTimeMS = ms
		}
	}
}

// WithQueueSizes sets the capacities of the graph, quick and drop queues.
// Non-positive values keep the current size.
func WithQueueSizes(graph, quick, drop int) Option {
	return func(c *Config) {
		if graph > 0 {
			c.GraphQueueSize = graph
		}

		if quick > 0 {
			c.QuickQueueSize = quick
		}

		if drop > 0 {
			c.DropQueueSize = drop
		}
	}
}

// WithDropInterval sets how often the drop goroutine wakes up.
func WithDropInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DropInterval = d
		}
	}
}

// WithMonitorInterval sets how often monitor taps are processed.
func WithMonitorInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.MonitorInterval = d
		}
	}
}

// WithSpectrumWindow selects the monitor spectrum window by name.
func WithSpectrumWindow(name string) Option {
	return func(c *Config) {
		c.SpectrumWindow = name
	}
}

// WithLogger sets the logger of the control side goroutines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithRegisterer registers the engine metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = reg
	}
}

// WithDropObserver installs a hook the drop goroutine calls for every
// released message.
func WithDropObserver(fn func(DropMsg)) Option {
	return func(c *Config) {
		c.DropObserver = fn
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return cfg
}

// LoadConfig reads a YAML file over DefaultConfig. A leading ~ in path is
// expanded to the home directory.
func LoadConfig(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: expand %q: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config %s: %w", expanded, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
