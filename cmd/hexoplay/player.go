package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-hexsynth/dsp/engine"
	"github.com/cwbudde/algo-hexsynth/dsp/event"
	"github.com/cwbudde/algo-hexsynth/internal/demo"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	controlInterval = 30 * time.Millisecond
	reportEvery     = time.Second
)

type playOptions struct {
	patch   string
	config  engine.Config
	frames  int
	tempo   float64
	sweepHz float64
	reg     prometheus.Registerer
}

// streamContext adapts the non-interleaved float32 buffers of a PortAudio
// callback to node.AudioContext.
type streamContext struct {
	out [][]float32
}

func (s *streamContext) NFrames() int {
	if len(s.out) == 0 {
		return 0
	}

	return len(s.out[0])
}

func (*streamContext) Input(int, int) float64 { return 0 }

func (s *streamContext) Output(ch, frame int, v float64) {
	if ch < len(s.out) {
		s.out[ch][frame] = float32(v)
	}
}

type player struct {
	demo       demo.Demo
	conf       *engine.Configurator
	exec       *engine.Executor
	sampleRate float64
	sweepHz    float64

	// audio thread only
	seq *demo.Sequencer
	win *event.Window
	ctx streamContext
}

func newPlayer(opts playOptions) (*player, error) {
	d, ok := demo.Lookup(opts.patch)
	if !ok {
		return nil, fmt.Errorf("unknown patch %q (have %v)", opts.patch, demo.Names())
	}

	p, err := d.Patch()
	if err != nil {
		return nil, err
	}

	conf, exec, err := engine.New(
		engine.WithConfig(opts.config),
		engine.WithLogger(logger),
		engine.WithRegisterer(opts.reg))
	if err != nil {
		return nil, err
	}

	if _, err := p.Upload(conf, false); err != nil {
		conf.Close()
		return nil, err
	}

	pl := &player{
		demo:       d,
		conf:       conf,
		exec:       exec,
		sampleRate: conf.Config().SampleRate,
		sweepHz:    opts.sweepHz,
		win:        event.NewWindow(conf.Config().MaxEvents),
	}

	if d.Sequenced {
		pl.seq = demo.NewSequencer(pl.sampleRate, opts.tempo, 0)
		exec.SetEventSource(pl.win.Pull)
	}

	conf.Monitor(d.Monitor, []int{0}, []int{0})

	return pl, nil
}

// callback runs on the audio thread.
func (p *player) callback(out [][]float32) {
	for _, ch := range out {
		clear(ch)
	}

	p.ctx.out = out

	if p.seq != nil {
		p.seq.Fill(p.win, p.ctx.NFrames())
	}

	p.exec.ProcessGraphUpdates()
	p.exec.Process(&p.ctx)
}

// control sweeps the demo parameter and reports feedback until ctx is done.
func (p *player) control(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	lastReport := start

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.tick(now.Sub(start))

			if now.Sub(lastReport) >= reportEvery {
				lastReport = now
				p.report()
			}
		}
	}
}

func (p *player) tick(elapsed time.Duration) {
	if p.sweepHz > 0 {
		x := 0.5 - 0.5*math.Cos(2*math.Pi*p.sweepHz*elapsed.Seconds())
		p.conf.SetParam(p.demo.Sweep, p.demo.SweepAt(x))
	}

	p.conf.UpdateOutputFeedback()
	p.conf.TriggerFeedbackRecalc()
}

func (p *player) report() {
	led, peak := p.conf.FilteredLedFor(p.demo.Monitor)
	logger.Debug("feedback",
		"node", p.demo.Monitor,
		"sweep", p.demo.Sweep,
		"value", p.demo.Sweep.Denorm(p.conf.ParamValue(p.demo.Sweep)),
		"led", led,
		"peak", peak)

	if !p.conf.CheckNewMonitorData() {
		return
	}

	if s, err := p.conf.MinMaxMonitorSamples(3); err == nil && s.Len() > 0 {
		mm := s.Latest()
		logger.Debug("monitor", "node", p.demo.Monitor, "min", mm.Min, "max", mm.Max)
	}
}

func (p *player) close() {
	p.conf.Close()
}
