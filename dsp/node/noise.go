package node

const (
	noiseAtv = iota
	noiseOffs
)

const noiseMode = 0

// Noise is a white noise generator seeded from its instance number, so two
// instances never produce the same sequence.
type Noise struct {
	seed  uint64
	state uint64
}

func newNoise(id NodeID) Node {
	seed := 0x9E3779B97F4A7C15 * (uint64(id.Instance) + 1)
	return &Noise{seed: seed, state: seed}
}

func (*Noise) Kind() Kind            { return KindNoise }
func (*Noise) SetSampleRate(float64) {}
func (n *Noise) Reset()              { n.state = n.seed }

// next is xorshift64*.
func (n *Noise) next() float64 {
	x := n.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	n.state = x

	return float64((x*2685821657736338717)>>11) / (1 << 53)
}

func (n *Noise) Process(ctx AudioContext, _ *ExecContext, atoms []SAtom, _, inputs, outputs []ProcBuf, led LedPhase) {
	frames := ctx.NFrames()
	atv := inputs[noiseAtv]
	offs := inputs[noiseOffs]
	out := outputs[0]
	unipolar := atoms[noiseMode].I() != 0

	for i := range frames {
		v := n.next()
		if !unipolar {
			v = 2*v - 1
		}

		out[i] = v*atv[i] + offs[i]
	}

	led.Led.Set(out[frames-1])
}
