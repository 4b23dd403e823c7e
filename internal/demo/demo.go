// Package demo holds the example patches and the step sequencer shared by
// the command line tools.
package demo

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/patch"
)

var (
	sin0     = node.KindSin.ID(0)
	amp0     = node.KindAmp.ID(0)
	out0     = node.KindOut.ID(0)
	noise0   = node.KindNoise.ID(0)
	sfilter0 = node.KindSFilter.ID(0)
	midiP0   = node.KindMidiP.ID(0)
)

// Demo is a named example patch. Sweep is the parameter the tools modulate
// between SweepMin and SweepMax, given in the parameter's natural unit.
type Demo struct {
	Name      string
	Help      string
	Sweep     node.ParamID
	SweepMin  float64
	SweepMax  float64
	Sequenced bool
	Monitor   node.NodeID

	build func(p *patch.Patch) error
}

// Patch builds a fresh patch for d.
func (d Demo) Patch() (*patch.Patch, error) {
	p := patch.New()
	if err := d.build(p); err != nil {
		return nil, fmt.Errorf("demo %s: %w", d.Name, err)
	}

	return p, nil
}

// SweepAt returns the normalized sweep value at position x in [0, 1].
func (d Demo) SweepAt(x float64) float64 {
	return d.Sweep.Norm(d.SweepMin + (d.SweepMax-d.SweepMin)*x)
}

var demos = map[string]Demo{
	"sine": {
		Name:     "sine",
		Help:     "sine through an amplifier, frequency swept",
		Sweep:    param(sin0, "freq"),
		SweepMin: 220,
		SweepMax: 880,
		Monitor:  amp0,
		build: func(p *patch.Patch) error {
			p.Set(param(amp0, "gain"), 0.5)
			return chain(p, conn{sin0, "sig", amp0, "inp"})
		},
	},
	"noise": {
		Name:     "noise",
		Help:     "white noise through a low pass filter, cutoff swept",
		Sweep:    param(sfilter0, "freq"),
		SweepMin: 200,
		SweepMax: 4000,
		Monitor:  sfilter0,
		build: func(p *patch.Patch) error {
			p.Set(param(sfilter0, "res"), 0.7)
			p.Set(param(amp0, "gain"), 0.4)

			return chain(p,
				conn{noise0, "sig", sfilter0, "inp"},
				conn{sfilter0, "sig", amp0, "inp"})
		},
	},
	"seq": {
		Name:      "seq",
		Help:      "step sequencer driving a sine voice, gain swept",
		Sweep:     param(amp0, "gain"),
		SweepMin:  0.1,
		SweepMax:  0.6,
		Sequenced: true,
		Monitor:   midiP0,
		build: func(p *patch.Patch) error {
			return chain(p,
				conn{midiP0, "freq", sin0, "freq"},
				conn{midiP0, "gate", amp0, "att"},
				conn{sin0, "sig", amp0, "inp"})
		},
	},
}

// Names returns the demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, bool) {
	d, ok := demos[name]
	return d, ok
}

type conn struct {
	from    node.NodeID
	outName string
	to      node.NodeID
	inName  string
}

// chain adds every node named in conns, then wires amp0 to both output
// channels.
func chain(p *patch.Patch, conns ...conn) error {
	for _, c := range conns {
		if err := p.Add(c.from, c.to); err != nil {
			return err
		}
	}

	if err := p.Add(out0); err != nil {
		return err
	}

	conns = append(conns, conn{amp0, "sig", out0, "ch1"}, conn{amp0, "sig", out0, "ch2"})
	for _, c := range conns {
		if err := p.Connect(c.from, c.outName, c.to, c.inName); err != nil {
			return err
		}
	}

	return nil
}

func param(id node.NodeID, name string) node.ParamID {
	pid, ok := id.Param(name)
	if !ok {
		panic("demo: " + id.String() + " has no param " + name)
	}

	return pid
}
