package puzzle

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"
)

const channelEpsilon = 1e-12

func TestInterpolateEndpointsAndMonotonic(t *testing.T) {
	tests := []struct {
		name        string
		first, last Color
		n           int
	}{
		{"black to white", Opaque(0, 0, 0), Opaque(1, 1, 1), 10},
		{"white to black", Opaque(1, 1, 1), Opaque(0, 0, 0), 10},
		{"mixed directions", Opaque(0.9, 0.1, 0.5), Opaque(0.2, 0.8, 0.5), 7},
		{"minimum length", Opaque(0.3, 0.6, 0.9), Opaque(0.6, 0.3, 0.1), MinLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Interpolate(tt.first, tt.last, tt.n)
			if g.Len() != tt.n {
				t.Fatalf("Len() = %d, want %d", g.Len(), tt.n)
			}
			if g[0] != tt.first {
				t.Errorf("g[0] = %v, want %v", g[0], tt.first)
			}
			if g[tt.n-1] != tt.last {
				t.Errorf("g[%d] = %v, want %v", tt.n-1, g[tt.n-1], tt.last)
			}
			assertMonotonic(t, g)
		})
	}
}

func TestInterpolateUsesAbsolutePosition(t *testing.T) {
	g := Interpolate(Opaque(0, 0, 0), Opaque(0.9, 0.9, 0.9), 10)
	// i/(N-1) with N=10 gives 0.1 per step.
	for i := 1; i < 9; i++ {
		want := 0.1 * float64(i)
		if math.Abs(g[i].R-want) > 1e-9 {
			t.Errorf("g[%d].R = %v, want %v", i, g[i].R, want)
		}
		if g[i].A != 1 {
			t.Errorf("g[%d].A = %v, want 1", i, g[i].A)
		}
	}
}

func TestInterpolatePanicsBelowMinimum(t *testing.T) {
	defer expectPanic(t, "Interpolate(n=2)")
	Interpolate(Opaque(0, 0, 0), Opaque(1, 1, 1), 2)
}

func TestGeneratorGenerate(t *testing.T) {
	gen := NewSeededGenerator(DefaultLength, 42)
	for round := 0; round < 200; round++ {
		g := gen.Generate()
		if g.Len() != DefaultLength {
			t.Fatalf("Len() = %d, want %d", g.Len(), DefaultLength)
		}
		for i, c := range g {
			if c.A != 1 {
				t.Fatalf("round %d: g[%d].A = %v, want 1", round, i, c.A)
			}
			for _, v := range c.Channels() {
				if v < 0 || v >= 1+channelEpsilon {
					t.Fatalf("round %d: g[%d] channel %v out of [0,1)", round, i, v)
				}
			}
		}
		assertMonotonic(t, g)
	}
}

func TestGeneratorSeedReproducible(t *testing.T) {
	a := NewSeededGenerator(6, 7).Generate()
	b := NewSeededGenerator(6, 7).Generate()
	if !a.Equal(b) {
		t.Errorf("same seed produced different gradients:\n%v\n%v", a, b)
	}
}

func TestGeneratorShufflePreservesEndpointsAndMultiset(t *testing.T) {
	gen := NewSeededGenerator(DefaultLength, 1)
	for round := 0; round < 200; round++ {
		g := gen.Generate()
		original := g.Clone()
		s := gen.Shuffle(g)

		if !g.Equal(original) {
			t.Fatal("Shuffle mutated its input")
		}
		if s[0] != g[0] || s[len(s)-1] != g[len(g)-1] {
			t.Fatalf("round %d: endpoints moved: %v -> %v", round, g, s)
		}
		if !sameMultiset(g[1:len(g)-1], s[1:len(s)-1]) {
			t.Fatalf("round %d: interior is not a permutation:\n%v\n%v", round, g, s)
		}
	}
}

func TestGeneratorShuffleReachesEveryPosition(t *testing.T) {
	gen := NewGenerator(5, rand.New(rand.NewPCG(3, 4)))
	g := Interpolate(Opaque(0, 0, 0), Opaque(1, 1, 1), 5)

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		s := gen.Shuffle(g)
		for pos := 1; pos < 4; pos++ {
			if s[pos] == g[1] {
				seen[pos] = true
			}
		}
	}
	for pos := 1; pos < 4; pos++ {
		if !seen[pos] {
			t.Errorf("g[1] never landed at interior position %d", pos)
		}
	}
}

func TestNewGeneratorPanicsBelowMinimum(t *testing.T) {
	defer expectPanic(t, "NewGenerator(2)")
	NewGenerator(2, nil)
}

func TestGradientHelpers(t *testing.T) {
	g := Interpolate(Opaque(0, 0, 0), Opaque(1, 1, 1), 4)

	if g.IsInterior(0) || g.IsInterior(3) || g.IsInterior(-1) || g.IsInterior(4) {
		t.Error("IsInterior accepted an endpoint or out-of-range index")
	}
	if !g.IsInterior(1) || !g.IsInterior(2) {
		t.Error("IsInterior rejected an interior index")
	}

	c := g.Clone()
	c[1] = Opaque(0.5, 0, 0)
	if g.Equal(c) {
		t.Error("Clone shares storage with original")
	}
	if g.Equal(g[:3]) {
		t.Error("Equal ignored length difference")
	}
	if Gradient(nil).Clone() != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestColorConversions(t *testing.T) {
	tests := []struct {
		in      Color
		wantHex string
	}{
		{Opaque(0, 0, 0), "#000000"},
		{Opaque(1, 1, 1), "#FFFFFF"},
		{Opaque(1, 0, 0.5), "#FF0080"},
		{Opaque(-0.2, 1.5, 0.2), "#00FF33"},
	}
	for _, tt := range tests {
		if got := tt.in.Hex(); got != tt.wantHex {
			t.Errorf("%v.Hex() = %s, want %s", tt.in, got, tt.wantHex)
		}
	}
	if a := Opaque(0.1, 0.2, 0.3).RGBA().A; a != 255 {
		t.Errorf("opaque alpha = %d, want 255", a)
	}
}

func assertMonotonic(t *testing.T, g Gradient) {
	t.Helper()
	first, last := g[0].Channels(), g[len(g)-1].Channels()
	for c := 0; c < 3; c++ {
		lo, hi := math.Min(first[c], last[c]), math.Max(first[c], last[c])
		increasing := last[c] >= first[c]
		for i := 1; i < len(g); i++ {
			v := g[i].Channels()[c]
			if v < lo-channelEpsilon || v > hi+channelEpsilon {
				t.Fatalf("g[%d] channel %d = %v outside [%v, %v]", i, c, v, lo, hi)
			}
			prev := g[i-1].Channels()[c]
			if increasing && v < prev-channelEpsilon {
				t.Fatalf("channel %d decreases at %d: %v < %v", c, i, v, prev)
			}
			if !increasing && v > prev+channelEpsilon {
				t.Fatalf("channel %d increases at %d: %v > %v", c, i, v, prev)
			}
		}
	}
}

func sameMultiset(a, b []Color) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(c Color) [4]float64 { return [4]float64{c.R, c.G, c.B, c.A} }
	less := func(s []Color) func(i, j int) bool {
		return func(i, j int) bool {
			ki, kj := key(s[i]), key(s[j])
			for k := range ki {
				if ki[k] != kj[k] {
					return ki[k] < kj[k]
				}
			}
			return false
		}
	}
	sa := append([]Color(nil), a...)
	sb := append([]Color(nil), b...)
	sort.Slice(sa, less(sa))
	sort.Slice(sb, less(sb))
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func expectPanic(t *testing.T, what string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("%s did not panic", what)
	}
}
