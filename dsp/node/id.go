package node

import "fmt"

// Kind enumerates the available node kinds.
type Kind uint8

const (
	KindNop Kind = iota
	KindAmp
	KindSin
	KindOut
	KindTest
	KindNoise
	KindSFilter
	KindMidiP

	kindCount
)

// Nop is the id of an unallocated node slot.
var Nop = NodeID{}

// Kinds returns all allocatable kinds, without KindNop.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindAmp; k < kindCount; k++ {
		out = append(out, k)
	}

	return out
}

// KindByName looks up a kind by its name as returned by String.
func KindByName(name string) (Kind, bool) {
	for k := KindNop; k < kindCount; k++ {
		if kindSpecs[k].name == name {
			return k, true
		}
	}

	return KindNop, false
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}

	return kindSpecs[k].name
}

// Valid reports whether k is an allocatable kind.
func (k Kind) Valid() bool { return k > KindNop && k < kindCount }

// ID returns the node id of instance inst of this kind.
func (k Kind) ID(inst uint8) NodeID {
	return NodeID{Kind: k, Instance: inst}
}

func (k Kind) spec() *kindSpec {
	if k >= kindCount {
		return &kindSpecs[KindNop]
	}

	return &kindSpecs[k]
}

// NodeID names one node. It is a plain comparable value.
type NodeID struct {
	Kind     Kind
	Instance uint8
}

func (id NodeID) String() string {
	return fmt.Sprintf("%s(%d)", id.Kind, id.Instance)
}

// IsNop reports whether id names an unallocated slot.
func (id NodeID) IsNop() bool {
	return id.Kind == KindNop
}

// Less orders ids by kind, then instance.
func (id NodeID) Less(o NodeID) bool {
	if id.Kind != o.Kind {
		return id.Kind < o.Kind
	}

	return id.Instance < o.Instance
}

// WithInstance returns the id of another instance of the same kind.
func (id NodeID) WithInstance(inst uint8) NodeID {
	return NodeID{Kind: id.Kind, Instance: inst}
}

// Inp returns the index of the named input port.
func (id NodeID) Inp(name string) (int, bool) {
	for i, p := range id.Kind.spec().inputs {
		if p.name == name {
			return i, true
		}
	}

	return 0, false
}

// Out returns the index of the named output port.
func (id NodeID) Out(name string) (int, bool) {
	for i, n := range id.Kind.spec().outputs {
		if n == name {
			return i, true
		}
	}

	return 0, false
}

// Param returns the parameter or atom with the given name.
func (id NodeID) Param(name string) (ParamID, bool) {
	s := id.Kind.spec()
	for i, p := range s.inputs {
		if p.name == name {
			return ParamID{Node: id, Idx: uint8(i)}, true
		}
	}

	for i, a := range s.atoms {
		if a.name == name {
			return ParamID{Node: id, Idx: uint8(len(s.inputs) + i)}, true
		}
	}

	return ParamID{}, false
}

// InpParamByIdx returns the parameter of input port i.
func (id NodeID) InpParamByIdx(i int) (ParamID, bool) {
	if i < 0 || i >= len(id.Kind.spec().inputs) {
		return ParamID{}, false
	}

	return ParamID{Node: id, Idx: uint8(i)}, true
}

// AtomParamByIdx returns the parameter of atom i.
func (id NodeID) AtomParamByIdx(i int) (ParamID, bool) {
	s := id.Kind.spec()
	if i < 0 || i >= len(s.atoms) {
		return ParamID{}, false
	}

	return ParamID{Node: id, Idx: uint8(len(s.inputs) + i)}, true
}

// ParamID names an input parameter or atom of a node. Indices below the
// node's input count are inputs, the rest are atoms.
type ParamID struct {
	Node NodeID
	Idx  uint8
}

func (p ParamID) String() string {
	return fmt.Sprintf("%s.%s", p.Node, p.Name())
}

// Valid reports whether p names an existing parameter or atom.
func (p ParamID) Valid() bool {
	s := p.Node.Kind.spec()
	return int(p.Idx) < len(s.inputs)+len(s.atoms)
}

// IsAtom reports whether p names an atom.
func (p ParamID) IsAtom() bool {
	return int(p.Idx) >= len(p.Node.Kind.spec().inputs)
}

// InputIdx returns the input port index of a non-atom parameter.
func (p ParamID) InputIdx() int {
	return int(p.Idx)
}

// AtomIdx returns the atom index of an atom parameter.
func (p ParamID) AtomIdx() int {
	return int(p.Idx) - len(p.Node.Kind.spec().inputs)
}

// Name returns the port or atom name, or "" when p is invalid.
func (p ParamID) Name() string {
	if in, ok := p.input(); ok {
		return in.name
	}

	if a, ok := p.atom(); ok {
		return a.name
	}

	return ""
}

// Norm maps a denormalized value into the parameter's normalized range.
func (p ParamID) Norm(v float64) float64 {
	in, ok := p.input()
	if !ok {
		return v
	}

	return in.m.norm(v)
}

// Denorm maps a normalized value to the parameter's natural unit.
func (p ParamID) Denorm(v float64) float64 {
	in, ok := p.input()
	if !ok {
		return v
	}

	return in.m.denorm(v)
}

// NormDef returns the normalized default of an input parameter.
func (p ParamID) NormDef() float64 {
	in, ok := p.input()
	if !ok {
		return 0
	}

	return in.m.norm(in.def)
}

// AtomDef returns the default value of an atom.
func (p ParamID) AtomDef() SAtom {
	a, ok := p.atom()
	if !ok {
		return SettingAtom(0)
	}

	return a.def
}

// Range returns the denormalized value range of an input parameter.
func (p ParamID) Range() (min, max float64) {
	in, ok := p.input()
	if !ok {
		return 0, 0
	}

	return in.m.min, in.m.max
}

func (p ParamID) input() (*paramSpec, bool) {
	s := p.Node.Kind.spec()
	if int(p.Idx) >= len(s.inputs) {
		return nil, false
	}

	return &s.inputs[p.Idx], true
}

func (p ParamID) atom() (*atomSpec, bool) {
	s := p.Node.Kind.spec()

	i := int(p.Idx) - len(s.inputs)
	if i < 0 || i >= len(s.atoms) {
		return nil, false
	}

	return &s.atoms[i], true
}
