//go:build !tinygo

package core

var millisValue uint32

// getMillis returns the simulated millisecond counter.
func getMillis() uint32 {
	return millisValue
}

// SetMillis sets the millisecond counter. Tests and the host simulator
// advance time explicitly.
func SetMillis(ms uint32) {
	millisValue = ms
}
