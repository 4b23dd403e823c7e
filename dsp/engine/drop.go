package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
)

// DropThread releases objects the executor retired. It runs on its own
// goroutine so the audio thread never frees anything.
type DropThread struct {
	queue    *ringbuf.Queue[DropMsg]
	interval time.Duration
	log      *slog.Logger
	observe  func(DropMsg)
	metrics  *Metrics

	quit    chan struct{}
	done    chan struct{}
	closing sync.Once
}

// NewDropThread starts a goroutine that drains queue every interval. A
// non-positive interval falls back to the default.
func NewDropThread(queue *ringbuf.Queue[DropMsg], interval time.Duration, log *slog.Logger, metrics *Metrics, observe func(DropMsg)) *DropThread {
	if interval <= 0 {
		interval = DefaultConfig().DropInterval
	}

	d := &DropThread{
		queue:    queue,
		interval: interval,
		log:      log,
		observe:  observe,
		metrics:  metrics,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *DropThread) run() {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.quit:
			d.drain()
			return
		case <-ticker.C:
			d.drain()
		}
	}
}

func (d *DropThread) drain() {
	n := 0

	for {
		msg, ok := d.queue.Pop()
		if !ok {
			break
		}

		release(msg)

		if d.observe != nil {
			d.observe(msg)
		}

		n++
	}

	if n > 0 {
		d.metrics.Released.Add(float64(n))
		d.log.Debug("released retired objects", "count", n)
	}
}

// release frees node resources. Programs and atoms only hold memory and
// become garbage here, off the audio thread.
func release(msg DropMsg) {
	if msg.Kind != DropNode {
		return
	}

	if r, ok := msg.Node.(node.Releaser); ok {
		r.Release()
	}
}

// Close releases what is still queued, stops the goroutine and waits for
// it. It is safe to call more than once.
func (d *DropThread) Close() {
	d.closing.Do(func() {
		close(d.quit)
		<-d.done
	})
}
