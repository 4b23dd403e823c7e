package engine

import (
	"github.com/cwbudde/algo-hexsynth/dsp/event"
	"github.com/cwbudde/algo-hexsynth/dsp/monitor"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
	"github.com/cwbudde/algo-hexsynth/dsp/smooth"
	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
)

// New builds an engine and starts its drop and monitor goroutines. The
// Configurator belongs to the control thread, the Executor to the audio
// thread. Stop the goroutines with Configurator.Close. New fails with
// ErrInvalidConfig before starting anything when the options leave a limit
// unusable.
func New(opts ...Option) (*Configurator, *Executor, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	graph := ringbuf.New[GraphMessage](cfg.GraphQueueSize)
	quick := ringbuf.New[QuickMessage](cfg.QuickQueueSize)
	drop := ringbuf.New[DropMsg](cfg.DropQueueSize)
	ctxVals := make([]node.AtomicFloat, 2*cfg.MaxAllocatedNodes)
	metrics := NewMetrics(cfg.Registerer)

	mon, backend := monitor.New(monitor.Config{
		SampleRate:   cfg.SampleRate,
		BlockSize:    node.MaxBlockSize,
		Interval:     cfg.MonitorInterval,
		SpectrumSize: cfg.SpectrumSize,
		Window:       cfg.SpectrumWindow,
		Logger:       cfg.Logger,
	})

	conf := &Configurator{
		cfg:         cfg,
		log:         cfg.Logger,
		metrics:     metrics,
		node2idx:    make(map[node.NodeID]int),
		params:      make(map[node.ParamID]inputParam),
		paramValues: make(map[node.ParamID]float64),
		atoms:       make(map[node.ParamID]atomParam),
		atomValues:  make(map[node.ParamID]node.SAtom),
		filter:      NewFeedbackFilter(),
		graph:       graph,
		quick:       quick,
		ctxVals:     ctxVals,
		mon:         mon,
		drop:        NewDropThread(drop, cfg.DropInterval, cfg.Logger, metrics, cfg.DropObserver),
	}

	exec := &Executor{
		nodes:     make([]node.Node, cfg.MaxAllocatedNodes),
		prog:      prog.Empty(),
		smoothers: make([]smootherSlot, cfg.MaxSmoothers),
		graph:     graph,
		quick:     quick,
		drop:      drop,
		ctxVals:   ctxVals,
		backend:   backend,
		metrics:   metrics,
		smoothMS:  cfg.SmoothingTimeMS,
		eventBuf:  make([]event.Event, 0, cfg.MaxEvents),
	}

	for i := range exec.monitors {
		exec.monitors[i] = monitor.Unused
	}

	for i := range exec.smoothers {
		exec.smoothers[i].sm = smooth.New(cfg.SampleRate, cfg.SmoothingTimeMS)
	}

	exec.SetSampleRate(cfg.SampleRate)

	cfg.Logger.Debug("engine started",
		"sample_rate", cfg.SampleRate,
		"max_nodes", cfg.MaxAllocatedNodes,
		"max_smoothers", cfg.MaxSmoothers)

	return conf, exec, nil
}
