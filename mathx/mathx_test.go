package mathx

import "testing"

func TestClamp(t *testing.T) {
	testCases := []struct {
		v, lo, hi, expected int32
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{42, 0, 10, 10},
		{5, 10, 0, 5}, // swapped bounds
		{0, 0, 0, 0},
	}

	for _, tc := range testCases {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestMap(t *testing.T) {
	testCases := []struct {
		x, inMin, inMax, outMin, outMax, expected int32
	}{
		{50, 0, 100, 0, 1000, 500},
		{0, 0, 100, 0, 1000, 0},
		{100, 0, 100, 0, 1000, 1000},
		{250, 200, 300, 280, 580, 430},
		// outside the source range extrapolates
		{150, 200, 300, 280, 580, 130},
		{350, 200, 300, 280, 580, 730},
		// degenerate source range
		{7, 5, 5, 10, 20, 10},
	}

	for _, tc := range testCases {
		got := Map(tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax)
		if got != tc.expected {
			t.Errorf("Map(%d, %d..%d, %d..%d) = %d, want %d",
				tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax, got, tc.expected)
		}
	}
}

func TestRoundDiv(t *testing.T) {
	if got := RoundDiv(uint32(41700), 2048); got != 20 {
		t.Errorf("RoundDiv(41700, 2048) = %d, want 20", got)
	}
	if got := RoundDiv(uint32(3), 2); got != 2 {
		t.Errorf("RoundDiv(3, 2) = %d, want 2", got)
	}
	if got := RoundDiv(uint32(5), 0); got != 0 {
		t.Errorf("RoundDiv by zero = %d, want 0", got)
	}
}
