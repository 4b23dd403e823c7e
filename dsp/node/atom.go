package node

import (
	"fmt"
	"strconv"
)

// AtomKind identifies the payload of an SAtom.
type AtomKind uint8

const (
	AtomSetting AtomKind = iota
	AtomParam
	AtomStr
	AtomMicro
)

// SAtom is a non-smoothed node setting: an integer setting, a float
// parameter, a string or a short sample table.
type SAtom struct {
	kind  AtomKind
	i     int64
	f     float64
	s     string
	micro []float64
}

// SettingAtom returns an integer setting atom.
func SettingAtom(i int64) SAtom { return SAtom{kind: AtomSetting, i: i} }

// ParamAtom returns a float parameter atom.
func ParamAtom(f float64) SAtom { return SAtom{kind: AtomParam, f: f} }

// StrAtom returns a string atom.
func StrAtom(s string) SAtom { return SAtom{kind: AtomStr, s: s} }

// MicroAtom returns a sample table atom. The slice is not copied.
func MicroAtom(v []float64) SAtom { return SAtom{kind: AtomMicro, micro: v} }

// Kind returns the payload type.
func (a SAtom) Kind() AtomKind { return a.kind }

// I returns the value as an integer setting. Params are truncated.
func (a SAtom) I() int64 {
	switch a.kind {
	case AtomSetting:
		return a.i
	case AtomParam:
		return int64(a.f)
	default:
		return 0
	}
}

// F returns the value as a float.
func (a SAtom) F() float64 {
	switch a.kind {
	case AtomSetting:
		return float64(a.i)
	case AtomParam:
		return a.f
	default:
		return 0
	}
}

// S returns the string payload.
func (a SAtom) S() string { return a.s }

// Micro returns the sample table payload.
func (a SAtom) Micro() []float64 { return a.micro }

// Equal reports whether both atoms hold the same value.
func (a SAtom) Equal(b SAtom) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case AtomSetting:
		return a.i == b.i
	case AtomParam:
		return a.f == b.f
	case AtomStr:
		return a.s == b.s
	default:
		if len(a.micro) != len(b.micro) {
			return false
		}

		for i := range a.micro {
			if a.micro[i] != b.micro[i] {
				return false
			}
		}

		return true
	}
}

func (a SAtom) String() string {
	switch a.kind {
	case AtomSetting:
		return strconv.FormatInt(a.i, 10)
	case AtomParam:
		return strconv.FormatFloat(a.f, 'g', -1, 64)
	case AtomStr:
		return strconv.Quote(a.s)
	default:
		return fmt.Sprintf("micro%v", a.micro)
	}
}
