package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cwbudde/algo-hexsynth/dsp/node"
	"github.com/cwbudde/algo-hexsynth/dsp/prog"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t testing.TB, opts ...Option) (*Configurator, *Executor) {
	t.Helper()

	base := []Option{WithLogger(quietLogger()), WithSampleRate(44100)}
	conf, exec, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(conf.Close)

	return conf, exec
}

func mustCreate(t testing.TB, conf *Configurator, ids ...node.NodeID) {
	t.Helper()

	for _, id := range ids {
		if _, _, err := conf.CreateNode(id); err != nil {
			t.Fatalf("CreateNode(%s) error = %v", id, err)
		}
	}
}

func mustParam(t testing.TB, id node.NodeID, name string) node.ParamID {
	t.Helper()

	p, ok := id.Param(name)
	if !ok {
		t.Fatalf("%s has no param %q", id, name)
	}

	return p
}

type conn struct {
	from    node.NodeID
	outPort int
	to      node.NodeID
	inPort  int
}

// compile rebuilds ports and adds ops in the given order with the given
// connections.
func compile(conf *Configurator, order []node.NodeID, conns ...conn) *prog.NodeProg {
	p := conf.RebuildNodePorts()
	for _, id := range order {
		conf.AddProgNode(p, id)

		for _, c := range conns {
			if c.to == id {
				conf.SetProgNodeExecConnection(p, c.to, c.inPort, c.from, c.outPort)
			}
		}
	}

	return p
}

// runBlock installs queued updates and processes one host block.
func runBlock(exec *Executor, frames int) *node.BufferContext {
	ctx := node.NewBufferContext(0, 2, frames)
	exec.ProcessGraphUpdates()
	exec.Process(ctx)

	return ctx
}
