//go:build !tinygo

package core

// State is a placeholder for the saved interrupt state on regular Go.
type State uintptr

// disableInterrupts is a no-op on regular Go; tests drive the phase tick
// from the same goroutine as the control cycle.
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on regular Go.
func restoreInterrupts(state State) {
	// No-op
}
