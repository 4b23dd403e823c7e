package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-hexsynth/dsp/engine"
	"github.com/cwbudde/algo-hexsynth/dsp/event"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/internal/demo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errUnknownPatch = errors.New("unknown patch")

type renderOptions struct {
	patch  string
	config engine.Config
	frames int
	block  int
	tempo  float64
	sweep  bool
}

type rendered struct {
	sampleRate int
	frames     int
	// interleaved stereo
	samples []float64
	peak    float64
	clipped int
}

// render runs the engine over opts.frames frames in host blocks of
// opts.block frames, the way an audio driver would.
func render(opts renderOptions) (*rendered, error) {
	d, ok := demo.Lookup(opts.patch)
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", errUnknownPatch, opts.patch, demo.Names())
	}

	if opts.block <= 0 {
		opts.block = node.MaxBlockSize
	}

	p, err := d.Patch()
	if err != nil {
		return nil, err
	}

	conf, exec, err := engine.New(engine.WithConfig(opts.config), engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer conf.Close()

	if _, err := p.Upload(conf, false); err != nil {
		return nil, err
	}

	sr := conf.Config().SampleRate

	var (
		seq *demo.Sequencer
		win = event.NewWindow(conf.Config().MaxEvents)
	)

	if d.Sequenced {
		seq = demo.NewSequencer(sr, opts.tempo, 0)
		exec.SetEventSource(win.Pull)
	}

	res := &rendered{
		sampleRate: int(sr),
		frames:     opts.frames,
		samples:    make([]float64, 0, 2*opts.frames),
	}

	ctx := node.NewBufferContext(0, 2, opts.block)

	for done := 0; done < opts.frames; done += opts.block {
		n := min(opts.block, opts.frames-done)
		ctx.Frames = n
		ctx.Clear()

		if opts.sweep {
			conf.SetParam(d.Sweep, d.SweepAt(float64(done)/float64(opts.frames)))
		}

		if seq != nil {
			seq.Fill(win, n)
		}

		exec.ProcessGraphUpdates()
		exec.Process(ctx)

		for i := range n {
			res.add(ctx.Out[0][i])
			res.add(ctx.Out[1][i])
		}
	}

	conf.UpdateOutputFeedback()
	led, peak := conf.FilteredLedFor(d.Monitor)
	logger.Debug("final feedback", "node", d.Monitor, "led", led, "peak", peak)

	return res, nil
}

func (r *rendered) add(v float64) {
	a := math.Abs(v)
	r.peak = math.Max(r.peak, a)

	if a > 1 {
		r.clipped++
	}

	r.samples = append(r.samples, v)
}

// writeWAV stores r as a stereo PCM file, clipping to [-1, 1].
func writeWAV(path string, r *rendered, bits int) error {
	if bits != 16 && bits != 24 {
		return fmt.Errorf("unsupported bit depth %d", bits)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, r.sampleRate, bits, 2, 1)

	full := float64(int(1)<<(bits-1) - 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  r.sampleRate,
		},
		Data:           make([]int, len(r.samples)),
		SourceBitDepth: bits,
	}

	for i, v := range r.samples {
		buf.Data[i] = int(math.Round(math.Max(-1, math.Min(1, v)) * full))
	}

	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}
