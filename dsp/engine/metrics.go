package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the engine drops or does. Counters are updated from
// the audio thread; they are plain atomic adds.
type Metrics struct {
	GraphDropped      prometheus.Counter
	QuickDropped      prometheus.Counter
	DropOverflow      prometheus.Counter
	MonitorDropped    prometheus.Counter
	SmootherExhausted prometheus.Counter
	Blocks            prometheus.Counter
	NodesCreated      prometheus.Counter
	ProgsUploaded     prometheus.Counter
	Released          prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg. With a nil
// reg the counters work but are not exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: "hexsynth",
			Subsystem: "engine",
			Name:      name,
			Help:      help,
		})
	}

	return &Metrics{
		GraphDropped:      counter("graph_updates_dropped_total", "Graph updates dropped because the queue was full."),
		QuickDropped:      counter("quick_updates_dropped_total", "Parameter updates dropped because the queue was full."),
		DropOverflow:      counter("drop_queue_overflow_total", "Retired objects the drop queue could not take."),
		MonitorDropped:    counter("monitor_buffers_dropped_total", "Monitor blocks lost for lack of buffers or queue space."),
		SmootherExhausted: counter("smoothers_exhausted_total", "Parameter updates dropped because every smoother was busy."),
		Blocks:            counter("blocks_processed_total", "Host blocks processed."),
		NodesCreated:      counter("nodes_created_total", "Nodes allocated by the configurator."),
		ProgsUploaded:     counter("programs_uploaded_total", "Programs sent to the executor."),
		Released:          counter("released_total", "Retired objects released by the drop goroutine."),
	}
}
