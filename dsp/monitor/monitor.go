package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-hexsynth/dsp/window"
	"github.com/cwbudde/algo-hexsynth/internal/ringbuf"
)

// ErrInvalidSlot is returned for slot numbers outside [0, SigCount).
var ErrInvalidSlot = errors.New("monitor: invalid slot")

// Config configures a Monitor.
type Config struct {
	SampleRate float64
	// BlockSize is the largest block the audio thread taps at once.
	BlockSize int
	// BufCount is the number of tap buffers. Zero sizes the pool for about
	// 100ms of blocks on every slot.
	BufCount     int
	Interval     time.Duration
	SpectrumSize int
	// Window names the spectrum analysis window, see window.ParseType.
	// Empty selects Hann.
	Window string
	Logger *slog.Logger
}

func (c *Config) setDefaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}

	if c.BlockSize <= 0 {
		c.BlockSize = 128
	}

	if c.BufCount <= 0 {
		blocks := int(c.SampleRate*0.1)/c.BlockSize + 1
		c.BufCount = blocks * SigCount
	}

	if c.Interval <= 0 {
		c.Interval = 10 * time.Millisecond
	}

	if c.SpectrumSize <= 0 {
		c.SpectrumSize = 1024
	}

	c.SpectrumSize = ringbuf.NextPowerOfTwo(c.SpectrumSize)

	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Monitor runs the processor goroutine and holds the published snapshots.
type Monitor struct {
	proc     *Processor
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	samples [SigCount]Samples
	raw     [SigCount][]float64
	newData atomic.Bool

	spectrum *spectrum

	stop     atomic.Bool
	done     chan struct{}
	closeOne sync.Once
}

// New creates a monitor and the backend the audio thread feeds, and starts
// the processor goroutine. Call Close to stop it.
func New(cfg Config) (*Monitor, *Backend) {
	m, b := newMonitor(cfg)
	go m.run()

	return m, b
}

func newMonitor(cfg Config) (*Monitor, *Backend) {
	cfg.setDefaults()

	send := ringbuf.New[*Buf](cfg.BufCount)
	recycle := ringbuf.New[*Buf](cfg.BufCount)

	rate := newRateCell(cfg.SampleRate)

	b := &Backend{send: send, recycle: recycle, rate: rate, unused: make([]*Buf, 0, cfg.BufCount)}
	for range cfg.BufCount {
		b.unused = append(b.unused, newBuf(cfg.BlockSize))
	}

	typ, err := window.ParseType(cfg.Window)
	if err != nil {
		cfg.Logger.Warn("monitor: falling back to hann window", "err", err)
		typ = window.TypeHann
	}

	m := &Monitor{
		proc:     newProcessor(send, recycle, rate, cfg.SpectrumSize),
		interval: cfg.Interval,
		log:      cfg.Logger,
		spectrum: newSpectrum(cfg.SpectrumSize, typ, rate),
		done:     make(chan struct{}),
	}

	for i := range m.raw {
		m.raw[i] = make([]float64, cfg.SpectrumSize)
	}

	return m, b
}

func (m *Monitor) run() {
	defer close(m.done)

	m.log.Debug("monitor started", "interval", m.interval)

	for !m.stop.Load() {
		time.Sleep(m.interval)
		m.poll()
	}

	m.log.Debug("monitor stopped")
}

// poll processes queued buffers and publishes a snapshot when histories
// changed.
func (m *Monitor) poll() {
	if !m.proc.Process() {
		return
	}

	m.mu.Lock()
	for i := range m.samples {
		m.samples[i] = *m.proc.Samples(i)
		m.proc.raw[i].copyTo(m.raw[i])
	}
	m.mu.Unlock()

	m.newData.Store(true)
}

// CheckNewData reports whether a snapshot was published since the last
// call.
func (m *Monitor) CheckNewData() bool {
	return m.newData.Swap(false)
}

// MinMaxSamples returns a copy of the published history of slot.
func (m *Monitor) MinMaxSamples(slot int) (Samples, error) {
	if slot < 0 || slot >= SigCount {
		return Samples{}, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.samples[slot], nil
}

// Spectrum returns the magnitude spectrum of the most recent samples of
// slot, from DC to Nyquist.
func (m *Monitor) Spectrum(slot int) ([]float64, error) {
	if slot < 0 || slot >= SigCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}

	m.spectrum.mu.Lock()
	defer m.spectrum.mu.Unlock()

	m.mu.Lock()
	copy(m.spectrum.in, m.raw[slot])
	m.mu.Unlock()

	return m.spectrum.compute()
}

// BinFrequency returns the center frequency of spectrum bin k.
func (m *Monitor) BinFrequency(k int) float64 {
	return m.spectrum.binFrequency(k)
}

// SampleRate returns the rate the monitor currently assumes.
func (m *Monitor) SampleRate() float64 {
	return m.proc.rate.load()
}

// Close stops the processor goroutine and waits for it.
func (m *Monitor) Close() {
	m.closeOne.Do(func() {
		m.stop.Store(true)
		<-m.done
	})
}
