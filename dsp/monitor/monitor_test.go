package monitor

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-hexsynth/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func feed(t *testing.T, b *Backend, slot int, samples []float64) {
	t.Helper()

	buf, ok := b.UnusedBuf()
	if !ok {
		t.Fatal("UnusedBuf() = false")
	}

	buf.Feed(slot, samples)

	if !b.Send(buf) {
		t.Fatal("Send() = false")
	}
}

func TestWindowSize(t *testing.T) {
	t.Parallel()

	if got := WindowSize(44100); got != 826 {
		t.Fatalf("WindowSize(44100) = %d, want 826", got)
	}

	if got := WindowSize(10); got != 1 {
		t.Fatalf("WindowSize(10) = %d, want 1", got)
	}
}

func TestMinMaxWindowing(t *testing.T) {
	t.Parallel()

	// 1600 Hz gives windows of 30 samples.
	m, b := newMonitor(Config{SampleRate: 1600, BlockSize: 128})

	ramp := make([]float64, 128)
	for i := range ramp {
		ramp[i] = float64(i)
	}

	for range 3 {
		feed(t, b, 4, ramp)
	}

	m.poll()

	if !m.CheckNewData() {
		t.Fatal("CheckNewData() = false after complete windows")
	}

	if m.CheckNewData() {
		t.Fatal("CheckNewData() = true twice")
	}

	s, err := m.MinMaxSamples(4)
	if err != nil {
		t.Fatalf("MinMaxSamples() error = %v", err)
	}

	// 384 samples make 12 windows, the newest 12 entries.
	first := s.At(HistoryLen - 12)
	if first.Min != 0 || first.Max != 29 {
		t.Fatalf("first window = %+v, want {0 29}", first)
	}

	if prev := s.At(HistoryLen - 13); prev != (MinMax{}) {
		t.Fatalf("entry before the first window = %+v, want zero", prev)
	}

	// The fifth window spans samples 120..149 across a buffer boundary.
	if got := s.At(HistoryLen - 8); got.Min != 0 || got.Max != 127 {
		t.Fatalf("straddling window = %+v, want {0 127}", got)
	}

	// 24 samples are pending, 6 more complete a window.
	b.CheckRecycle()
	feed(t, b, 4, []float64{-5, 1, 1, 1, 1, 1})
	m.poll()

	s, _ = m.MinMaxSamples(4)
	if got := s.Latest(); got.Min != -5 || got.Max != 127 {
		t.Fatalf("carried window = %+v, want {-5 127}", got)
	}

	other, _ := m.MinMaxSamples(0)
	if other.Latest() != (MinMax{}) {
		t.Fatal("untapped slot received data")
	}
}

func TestPartialWindowDoesNotPublish(t *testing.T) {
	t.Parallel()

	m, b := newMonitor(Config{SampleRate: 1600, BlockSize: 128})
	feed(t, b, 0, make([]float64, 10))
	m.poll()

	if m.CheckNewData() {
		t.Fatal("CheckNewData() = true without a complete window")
	}
}

func TestBackendRecycles(t *testing.T) {
	t.Parallel()

	m, b := newMonitor(Config{SampleRate: 1600, BlockSize: 16, BufCount: 2})

	feed(t, b, 0, make([]float64, 16))
	feed(t, b, 1, make([]float64, 16))

	if _, ok := b.UnusedBuf(); ok {
		t.Fatal("UnusedBuf() = true with all buffers in flight")
	}

	m.poll()
	b.CheckRecycle()

	if b.Free() != 2 {
		t.Fatalf("Free() = %d after recycle, want 2", b.Free())
	}
}

func TestSendOnFullQueueKeepsBuffer(t *testing.T) {
	t.Parallel()

	_, b := newMonitor(Config{BlockSize: 4, BufCount: 3})

	// The queue rounds up to 4 slots, more than the 3 buffers, so fill it
	// with an extra buffer first.
	b.unused = append(b.unused, newBuf(4), newBuf(4))

	sent := 0
	for {
		buf, ok := b.UnusedBuf()
		if !ok {
			t.Fatal("ran out of buffers before the queue was full")
		}

		if !b.Send(buf) {
			break
		}

		sent++
	}

	if sent != 4 || b.Free() != 1 {
		t.Fatalf("sent %d, free %d, want 4 sent and the rejected buffer kept", sent, b.Free())
	}
}

func TestSpectrumPeak(t *testing.T) {
	t.Parallel()

	const (
		sr   = 44100.0
		size = 1024
		bin  = 32
	)

	m, b := newMonitor(Config{SampleRate: sr, BlockSize: 128, SpectrumSize: size})
	freq := bin * sr / size
	sine := testutil.DeterministicSine(freq, sr, 1, size)

	for i := 0; i < size; i += 128 {
		feed(t, b, 3, sine[i:i+128])
	}

	m.poll()

	mag, err := m.Spectrum(3)
	if err != nil {
		t.Fatalf("Spectrum() error = %v", err)
	}

	if len(mag) != size/2+1 {
		t.Fatalf("len(Spectrum()) = %d, want %d", len(mag), size/2+1)
	}

	peak := 0
	for k := range mag {
		if mag[k] > mag[peak] {
			peak = k
		}
	}

	if peak != bin {
		t.Fatalf("peak bin = %d, want %d", peak, bin)
	}

	if math.Abs(mag[peak]-1) > 0.01 {
		t.Fatalf("peak magnitude = %v, want ~1", mag[peak])
	}

	if got := m.BinFrequency(bin); math.Abs(got-freq) > 1e-9 {
		t.Fatalf("BinFrequency(%d) = %v, want %v", bin, got, freq)
	}
}

func TestInvalidSlot(t *testing.T) {
	t.Parallel()

	m, _ := newMonitor(Config{})

	if _, err := m.MinMaxSamples(SigCount); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("MinMaxSamples(%d) error = %v, want ErrInvalidSlot", SigCount, err)
	}

	if _, err := m.Spectrum(-1); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("Spectrum(-1) error = %v, want ErrInvalidSlot", err)
	}
}

func TestGoroutinePublishes(t *testing.T) {
	t.Parallel()

	m, b := New(Config{SampleRate: 1600, BlockSize: 128, Interval: time.Millisecond})
	defer m.Close()

	feed(t, b, 5, testutil.DC(0.5, 128))

	testutil.WaitFor(t, 2*time.Second, "snapshot", m.CheckNewData)

	s, _ := m.MinMaxSamples(5)
	if got := s.Latest(); got.Min != 0.5 || got.Max != 0.5 {
		t.Fatalf("Latest() = %+v, want {0.5 0.5}", got)
	}

	m.Close()
	m.Close()
}

func TestBackendSampleRateResizesWindows(t *testing.T) {
	t.Parallel()

	m, b := newMonitor(Config{SampleRate: 1600, BlockSize: 128})

	b.SetSampleRate(3200)
	b.SetSampleRate(0)

	if got := m.SampleRate(); got != 3200 {
		t.Fatalf("SampleRate() = %v, want 3200", got)
	}

	// 3200 Hz gives windows of 60 samples, so one block completes two.
	feed(t, b, 2, testutil.Ramp(0, 1, 128))
	m.poll()

	if got := m.proc.procs[2].window; got != WindowSize(3200) {
		t.Fatalf("window = %d, want %d", got, WindowSize(3200))
	}

	s, _ := m.MinMaxSamples(2)
	if got := s.Latest(); got.Min != 60 || got.Max != 119 {
		t.Fatalf("Latest() = %+v, want {60 119}", got)
	}

	if prev := s.At(HistoryLen - 3); prev != (MinMax{}) {
		t.Fatalf("third newest entry = %+v, want zero", prev)
	}

	if got := m.BinFrequency(4); got != 4*3200.0/1024 {
		t.Fatalf("BinFrequency(4) = %v, want %v", got, 4*3200.0/1024)
	}
}

func TestSpectrumWindowChoice(t *testing.T) {
	t.Parallel()

	const (
		sr   = 48000.0
		size = 512
		bin  = 20
	)

	for _, name := range []string{"hann", "hamming", "blackman", "rectangular", "bogus"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, b := newMonitor(Config{SampleRate: sr, BlockSize: 128, SpectrumSize: size, Window: name, Logger: quietLogger()})
			sine := testutil.DeterministicSine(bin*sr/size, sr, 0.5, size)

			for i := 0; i < size; i += 128 {
				feed(t, b, 0, sine[i:i+128])
			}

			m.poll()

			mag, err := m.Spectrum(0)
			if err != nil {
				t.Fatalf("Spectrum() error = %v", err)
			}

			if math.Abs(mag[bin]-0.5) > 0.01 {
				t.Fatalf("mag[%d] = %v, want ~0.5", bin, mag[bin])
			}
		})
	}
}
