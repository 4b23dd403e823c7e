package node

import "testing"

func TestAtomAccessors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		atom SAtom
		i    int64
		f    float64
		s    string
		str  string
	}{
		{name: "setting", atom: SettingAtom(3), i: 3, f: 3, str: "3"},
		{name: "param", atom: ParamAtom(2.5), i: 2, f: 2.5, str: "2.5"},
		{name: "string", atom: StrAtom("hi"), s: "hi", str: `"hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.atom.I() != tt.i || tt.atom.F() != tt.f || tt.atom.S() != tt.s {
				t.Fatalf("atom = (%d, %v, %q), want (%d, %v, %q)",
					tt.atom.I(), tt.atom.F(), tt.atom.S(), tt.i, tt.f, tt.s)
			}

			if tt.atom.String() != tt.str {
				t.Fatalf("String() = %q, want %q", tt.atom.String(), tt.str)
			}
		})
	}
}

func TestAtomEqual(t *testing.T) {
	t.Parallel()

	if !MicroAtom([]float64{1, 2}).Equal(MicroAtom([]float64{1, 2})) {
		t.Fatal("equal micro atoms differ")
	}

	if SettingAtom(1).Equal(ParamAtom(1)) {
		t.Fatal("setting and param atoms compare equal")
	}
}
