package mathx

import "testing"

func TestClamp(t *testing.T) {
	for _, c := range []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
		{5, 10, 0, 5}, // swapped bounds
	} {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestAbsDiff(t *testing.T) {
	for _, c := range []struct{ a, b, want uint64 }{
		{7, 3, 4},
		{3, 7, 4},
		{9, 9, 0},
		{0, ^uint64(0), ^uint64(0)},
	} {
		if got := AbsDiff(c.a, c.b); got != c.want {
			t.Errorf("AbsDiff(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestRoundDiv(t *testing.T) {
	for _, c := range []struct{ a, b, want uint64 }{
		{10, 4, 3}, // 2.5 rounds up
		{9, 4, 2},  // 2.25 rounds down
		{10, 5, 2},
		{1, 0, 0}, // guarded
	} {
		if got := RoundDiv(c.a, c.b); got != c.want {
			t.Errorf("RoundDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
