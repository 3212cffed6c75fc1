package core

import "testing"

func TestHistoryEmpty(t *testing.T) {
	var h History

	if got := h.Last(); got != 0 {
		t.Errorf("Last() on empty = %d, want 0", got)
	}
	if got := h.Average(); got != 0 {
		t.Errorf("Average() on empty = %d, want 0", got)
	}
	if got := h.Dispersion(); got != dispersionSentinel {
		t.Errorf("Dispersion() on empty = %v, want sentinel", got)
	}
}

func TestHistorySingleElement(t *testing.T) {
	var h History
	h.Put(42)

	if got := h.Last(); got != 42 {
		t.Errorf("Last() = %d, want 42", got)
	}
	if got := h.Average(); got != 42 {
		t.Errorf("Average() = %d, want 42", got)
	}
	if got := h.Dispersion(); got != dispersionSentinel {
		t.Errorf("Dispersion() with 1 sample = %v, want sentinel", got)
	}
}

func TestHistorySentinelBelowThreeSamples(t *testing.T) {
	var h History
	h.Put(10)
	h.Put(20)

	if got := h.Dispersion(); got != dispersionSentinel {
		t.Errorf("Dispersion() with 2 samples = %v, want sentinel", got)
	}

	h.Put(30)
	if got := h.Dispersion(); got == dispersionSentinel {
		t.Errorf("Dispersion() with 3 samples still sentinel")
	}
}

func TestHistoryAverage(t *testing.T) {
	testCases := []struct {
		name     string
		values   []int32
		expected int32
	}{
		{"pair", []int32{10, 20}, 15},
		{"rounds up at half", []int32{10, 21}, 16},       // (31+1)/2
		{"triple", []int32{300, 310, 305}, 305},          // (915+1)/3
		{"full window", fill(16, 400), 400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var h History
			for _, v := range tc.values {
				h.Put(v)
			}
			if got := h.Average(); got != tc.expected {
				t.Errorf("Average(%v) = %d, want %d", tc.values, got, tc.expected)
			}
		})
	}
}

func TestHistoryDispersion(t *testing.T) {
	var h History
	for _, v := range []int32{4, 8, 12, 16} {
		h.Put(v)
	}
	// mean = (40+2)/4 = 10; squared deviations 36+4+4+36 = 80; +2n = 88.
	want := float32(88) / 4
	if got := h.Dispersion(); got != want {
		t.Errorf("Dispersion() = %v, want %v", got, want)
	}
}

func TestHistoryConstantSamples(t *testing.T) {
	var h History
	for i := 0; i < 10; i++ {
		h.Put(500)
	}
	// Only the smoothing bias remains: 2n/n = 2.
	if got := h.Dispersion(); got != 2 {
		t.Errorf("Dispersion() of constant series = %v, want 2", got)
	}
	if !h.Stable(3) {
		t.Errorf("constant series must be stable under limit 3")
	}
	if h.Stable(1) {
		t.Errorf("limit below the smoothing bias must not report stable")
	}
}

func TestHistoryRingOverwrite(t *testing.T) {
	var h History
	for i := int32(1); i <= historyLength+4; i++ {
		h.Put(i)
	}

	if got := h.Len(); got != historyLength {
		t.Fatalf("Len() = %d, want %d", got, historyLength)
	}
	if got := h.Last(); got != historyLength+4 {
		t.Errorf("Last() = %d, want %d", got, historyLength+4)
	}

	// Oldest four were overwritten: window is 5..20, mean (200+8)/16 = 13.
	if got := h.Average(); got != 13 {
		t.Errorf("Average() after wrap = %d, want 13", got)
	}
}

func TestHistoryLastAfterExactFill(t *testing.T) {
	var h History
	for i := int32(1); i <= historyLength; i++ {
		h.Put(i)
	}
	if got := h.Last(); got != historyLength {
		t.Errorf("Last() = %d, want %d", got, historyLength)
	}

	h.Put(99)
	if got := h.Last(); got != 99 {
		t.Errorf("Last() after wrap = %d, want 99", got)
	}
}

func fill(n int, v int32) []int32 {
	s := make([]int32, n)
	for i := range s {
		s[i] = v
	}
	return s
}
