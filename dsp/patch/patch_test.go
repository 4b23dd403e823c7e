package patch

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cwbudde/algo-hexsynth/dsp/engine"
	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
)

var (
	sin0 = node.KindSin.ID(0)
	sin1 = node.KindSin.ID(1)
	amp0 = node.KindAmp.ID(0)
	out0 = node.KindOut.ID(0)
)

func mustConnect(t *testing.T, p *Patch, from node.NodeID, out string, to node.NodeID, in string) {
	t.Helper()

	if err := p.Connect(from, out, to, in); err != nil {
		t.Fatalf("Connect(%s.%s -> %s.%s) error = %v", from, out, to, in, err)
	}
}

func TestOrderProducersFirst(t *testing.T) {
	t.Parallel()

	p := New()
	if err := p.Add(out0, amp0, sin0, sin1); err != nil {
		t.Fatal(err)
	}

	mustConnect(t, p, amp0, "sig", out0, "ch1")
	mustConnect(t, p, sin0, "sig", amp0, "inp")
	mustConnect(t, p, sin1, "sig", amp0, "gain")

	order, err := p.Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}

	want := []node.NodeID{sin0, sin1, amp0, out0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Order() = %v, want %v", order, want)
		}
	}

	pos := make(map[node.NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	for _, c := range p.Connections() {
		if pos[c.From] >= pos[c.To] {
			t.Fatalf("%s ordered after its consumer in %v", c, order)
		}
	}
}

func TestOrderRejectsCycle(t *testing.T) {
	t.Parallel()

	p := New()
	_ = p.Add(amp0, node.KindAmp.ID(1))
	mustConnect(t, p, amp0, "sig", node.KindAmp.ID(1), "inp")
	mustConnect(t, p, node.KindAmp.ID(1), "sig", amp0, "inp")

	if _, err := p.Order(); !errors.Is(err, ErrCycle) {
		t.Fatalf("Order() error = %v, want ErrCycle", err)
	}

	self := New()
	_ = self.Add(amp0)
	mustConnect(t, self, amp0, "sig", amp0, "att")

	if _, err := self.Order(); !errors.Is(err, ErrCycle) {
		t.Fatalf("Order() with self loop error = %v, want ErrCycle", err)
	}
}

func TestConnectErrors(t *testing.T) {
	t.Parallel()

	p := New()
	_ = p.Add(sin0, amp0)

	tests := []struct {
		name    string
		from    node.NodeID
		out     string
		to      node.NodeID
		in      string
		wantErr error
	}{
		{"unknown output", sin0, "nope", amp0, "inp", ErrUnknownPort},
		{"unknown input", sin0, "sig", amp0, "nope", ErrUnknownPort},
		{"node not added", sin1, "sig", amp0, "inp", ErrUnknownNode},
	}

	for _, tt := range tests {
		if err := p.Connect(tt.from, tt.out, tt.to, tt.in); !errors.Is(err, tt.wantErr) {
			t.Fatalf("%s: Connect() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	mustConnect(t, p, sin0, "sig", amp0, "inp")

	if err := p.Connect(sin0, "sig", amp0, "inp"); !errors.Is(err, ErrDuplicateInput) {
		t.Fatalf("second Connect() error = %v, want ErrDuplicateInput", err)
	}

	if err := p.ConnectPorts(sin0, 3, amp0, 1); !errors.Is(err, ErrUnknownPort) {
		t.Fatalf("ConnectPorts() error = %v, want ErrUnknownPort", err)
	}

	if err := p.Add(node.Nop); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("Add(Nop) error = %v, want ErrUnknownNode", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	p := New()
	_ = p.Add(sin0, amp0, out0)
	mustConnect(t, p, sin0, "sig", amp0, "inp")
	mustConnect(t, p, amp0, "sig", out0, "ch1")
	p.Set(mustParam(t, amp0, "gain"), 0.3)

	p.Remove(amp0)

	if got := p.Nodes(); len(got) != 2 || got[0] != sin0 || got[1] != out0 {
		t.Fatalf("Nodes() = %v", got)
	}

	if n := len(p.Connections()); n != 0 {
		t.Fatalf("%d connections left", n)
	}

	if len(p.params) != 0 {
		t.Fatalf("params = %v, want none", p.params)
	}

	// The freed input accepts a new connection.
	_ = p.Add(node.KindAmp.ID(3))
	mustConnect(t, p, node.KindAmp.ID(3), "sig", out0, "ch1")
}

type call struct {
	op   string
	id   node.NodeID
	from node.NodeID
}

type recorder struct {
	calls []call
}

func (r *recorder) CreateNode(id node.NodeID) (node.Info, int, error) {
	r.calls = append(r.calls, call{op: "create", id: id})
	return node.NewInfo(id), 0, nil
}

func (r *recorder) SetParam(pid node.ParamID, _ float64) {
	r.calls = append(r.calls, call{op: "param", id: pid.Node})
}

func (r *recorder) RebuildNodePorts() *prog.NodeProg {
	r.calls = append(r.calls, call{op: "rebuild"})
	return prog.Empty()
}

func (r *recorder) AddProgNode(_ *prog.NodeProg, id node.NodeID) {
	r.calls = append(r.calls, call{op: "add", id: id})
}

func (r *recorder) SetProgNodeExecConnection(_ *prog.NodeProg, inID node.NodeID, _ int, outID node.NodeID, _ int) {
	r.calls = append(r.calls, call{op: "conn", id: inID, from: outID})
}

func (r *recorder) UploadProg(*prog.NodeProg, bool) {
	r.calls = append(r.calls, call{op: "upload"})
}

func TestCompileCallSequence(t *testing.T) {
	t.Parallel()

	p := New()
	_ = p.Add(amp0, sin0)
	mustConnect(t, p, sin0, "sig", amp0, "inp")
	p.Set(mustParam(t, amp0, "gain"), 0.5)

	var r recorder
	if _, err := p.Upload(&r, true); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	want := []call{
		{op: "create", id: amp0},
		{op: "create", id: sin0},
		{op: "param", id: amp0},
		{op: "rebuild"},
		{op: "add", id: sin0},
		{op: "add", id: amp0},
		{op: "conn", id: amp0, from: sin0},
		{op: "upload"},
	}

	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}

	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, r.calls[i], want[i])
		}
	}
}

func TestUploadToEngine(t *testing.T) {
	t.Parallel()

	conf, exec, err := engine.New(engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	t.Cleanup(conf.Close)

	p := New()
	_ = p.Add(out0, amp0, sin0)
	mustConnect(t, p, sin0, "sig", amp0, "inp")
	mustConnect(t, p, amp0, "sig", out0, "ch1")
	mustConnect(t, p, amp0, "sig", out0, "ch2")

	np, err := p.Upload(conf, false)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if len(np.Ops) != 3 || np.Ops[0].Kind != node.KindSin || np.Ops[2].Kind != node.KindOut {
		t.Fatalf("ops = %v", np.Ops)
	}

	if len(np.Ops[2].Inputs) != 2 {
		t.Fatalf("out op edges = %v, want 2", np.Ops[2].Inputs)
	}

	ctx := node.NewBufferContext(0, 2, 64)
	exec.ProcessGraphUpdates()
	exec.Process(ctx)

	for i := range 64 {
		if ctx.Out[0][i] != ctx.Out[1][i] {
			t.Fatalf("frame %d: left %v != right %v", i, ctx.Out[0][i], ctx.Out[1][i])
		}
	}

	if ctx.Out[0][63] == 0 {
		t.Fatal("no signal reached the output")
	}
}

func mustParam(t *testing.T, id node.NodeID, name string) node.ParamID {
	t.Helper()

	pid, ok := id.Param(name)
	if !ok {
		t.Fatalf("%s has no param %q", id, name)
	}

	return pid
}
