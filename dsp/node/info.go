package node

// Category groups node kinds for menus and help output.
type Category uint8

const (
	CatNone Category = iota
	CatOsc
	CatSignal
	CatCtrl
	CatIOUtil
)

func (c Category) String() string {
	switch c {
	case CatOsc:
		return "osc"
	case CatSignal:
		return "signal"
	case CatCtrl:
		return "ctrl"
	case CatIOUtil:
		return "io-util"
	default:
		return "none"
	}
}

type paramSpec struct {
	name string
	def  float64 // natural unit
	m    mapping
}

type atomSpec struct {
	name string
	def  SAtom
}

type kindSpec struct {
	name     string
	category Category
	help     string
	inputs   []paramSpec
	outputs  []string
	atoms    []atomSpec
	create   func(NodeID) Node
}

var kindSpecs = [kindCount]kindSpec{
	KindNop: {name: "nop"},
	KindAmp: {
		name:     "amp",
		category: CatSignal,
		help:     "Signal amplifier with quadratic gain and linear attenuation.",
		inputs: []paramSpec{
			{name: "inp", def: 0, m: signalMap},
			{name: "gain", def: 1, m: gainMap},
			{name: "att", def: 1, m: unitMap},
		},
		outputs: []string{"sig"},
		atoms:   []atomSpec{{name: "neg_att", def: SettingAtom(1)}},
		create:  newAmp,
	},
	KindSin: {
		name:     "sin",
		category: CatOsc,
		help:     "Sine oscillator.",
		inputs: []paramSpec{
			{name: "freq", def: 440, m: pitchMap},
			{name: "det", def: 0, m: detuneMap},
		},
		outputs: []string{"sig"},
		create:  newSin,
	},
	KindOut: {
		name:     "out",
		category: CatIOUtil,
		help:     "Audio output to the first two host channels.",
		inputs: []paramSpec{
			{name: "ch1", def: 0, m: signalMap},
			{name: "ch2", def: 0, m: signalMap},
			{name: "vol", def: 1, m: volMap},
		},
		atoms:  []atomSpec{{name: "mono", def: SettingAtom(0)}},
		create: newOut,
	},
	KindTest: {
		name:     "test",
		category: CatIOUtil,
		help:     "Passes f through and exposes one atom of every kind.",
		inputs: []paramSpec{
			{name: "f", def: 0.5, m: unitMap},
		},
		outputs: []string{"sig"},
		atoms: []atomSpec{
			{name: "p", def: ParamAtom(0)},
			{name: "trig", def: ParamAtom(0)},
			{name: "s", def: SettingAtom(0)},
			{name: "name", def: StrAtom("")},
		},
		create: newTest,
	},
	KindNoise: {
		name:     "noise",
		category: CatOsc,
		help:     "White noise generator.",
		inputs: []paramSpec{
			{name: "atv", def: 0.5, m: signalMap},
			{name: "offs", def: 0, m: signalMap},
		},
		outputs: []string{"sig"},
		atoms:   []atomSpec{{name: "mode", def: SettingAtom(0)}},
		create:  newNoise,
	},
	KindSFilter: {
		name:     "sfilter",
		category: CatSignal,
		help:     "State variable filter (low, high, band pass and notch).",
		inputs: []paramSpec{
			{name: "inp", def: 0, m: signalMap},
			{name: "freq", def: 1000, m: pitchMap},
			{name: "res", def: 0.5, m: unitMap},
		},
		outputs: []string{"sig"},
		atoms:   []atomSpec{{name: "ftype", def: SettingAtom(0)}},
		create:  newSFilter,
	},
	KindMidiP: {
		name:     "midip",
		category: CatCtrl,
		help:     "Monophonic MIDI pitch, gate and velocity.",
		inputs: []paramSpec{
			{name: "det", def: 0, m: detuneMap},
		},
		outputs: []string{"freq", "gate", "vel"},
		atoms:   []atomSpec{{name: "chan", def: SettingAtom(0)}},
		create:  newMidiP,
	},
}

// Info describes the ports and atoms of a node. The zero value describes
// Nop.
type Info struct {
	id   NodeID
	spec *kindSpec
}

// NewInfo returns the info for id.
func NewInfo(id NodeID) Info {
	return Info{id: id, spec: id.Kind.spec()}
}

func (i Info) s() *kindSpec {
	if i.spec == nil {
		return &kindSpecs[KindNop]
	}

	return i.spec
}

// ID returns the described node.
func (i Info) ID() NodeID { return i.id }

// InCount returns the number of input ports.
func (i Info) InCount() int { return len(i.s().inputs) }

// OutCount returns the number of output ports.
func (i Info) OutCount() int { return len(i.s().outputs) }

// AtCount returns the number of atoms.
func (i Info) AtCount() int { return len(i.s().atoms) }

// InName returns the name of input port idx.
func (i Info) InName(idx int) string {
	s := i.s()
	if idx < 0 || idx >= len(s.inputs) {
		return ""
	}

	return s.inputs[idx].name
}

// OutName returns the name of output port idx.
func (i Info) OutName(idx int) string {
	s := i.s()
	if idx < 0 || idx >= len(s.outputs) {
		return ""
	}

	return s.outputs[idx]
}

// AtomName returns the name of atom idx.
func (i Info) AtomName(idx int) string {
	s := i.s()
	if idx < 0 || idx >= len(s.atoms) {
		return ""
	}

	return s.atoms[idx].name
}

// Category returns the kind's menu category.
func (i Info) Category() Category { return i.s().category }

// Help returns a one-line description of the kind.
func (i Info) Help() string { return i.s().help }
