package core

import "github.com/chewxy/math32"

const (
	historyLength = 16

	// dispersionSentinel is returned while fewer than three samples
	// exist: not enough data to judge stability.
	dispersionSentinel = 999
)

// History is a fixed-capacity ring of recent control-cycle samples with
// mean and population-dispersion statistics. The controller keeps one for
// temperature and one for applied power; instances are never shared.
type History struct {
	data  [historyLength]int32
	count int
	pos   int // slot the next insert overwrites once full
}

// Put inserts a sample. While below capacity it appends; once full it
// overwrites the logically oldest slot.
func (h *History) Put(v int32) {
	if h.count < historyLength {
		h.data[h.count] = v
		h.count++
		return
	}
	h.data[h.pos] = v
	h.pos++
	if h.pos >= historyLength {
		h.pos = 0
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	return h.count
}

// Last returns the most recently inserted sample, or 0 when empty.
func (h *History) Last() int32 {
	if h.count == 0 {
		return 0
	}
	if h.count < historyLength {
		return h.data[h.count-1]
	}
	i := h.pos - 1
	if i < 0 {
		i = historyLength - 1
	}
	return h.data[i]
}

// Average returns the rounded arithmetic mean of the stored samples. The
// +n/2 term before the division is the empirical rounding bias carried by
// the statistics; keep its numeric effect.
func (h *History) Average() int32 {
	if h.count == 0 {
		return 0
	}
	if h.count == 1 {
		return h.data[0]
	}
	var sum int32
	for i := 0; i < h.count; i++ {
		sum += h.data[i]
	}
	sum += int32(h.count) >> 1
	return sum / int32(h.count)
}

// Dispersion returns the population variance of the stored samples around
// their mean, with a +2n smoothing term before the division. Fewer than
// three samples yield the sentinel.
func (h *History) Dispersion() float32 {
	if h.count < 3 {
		return dispersionSentinel
	}
	avg := h.Average()
	var sum int32
	for i := 0; i < h.count; i++ {
		d := h.data[i] - avg
		sum += d * d
	}
	sum += int32(h.count) << 1
	return float32(sum) / float32(h.count)
}

// StdDev is the square root of Dispersion.
func (h *History) StdDev() float32 {
	return math32.Sqrt(h.Dispersion())
}

// Stable reports whether the samples have settled under the given
// dispersion limit. False until three samples exist.
func (h *History) Stable(limit float32) bool {
	return h.Dispersion() <= limit
}
