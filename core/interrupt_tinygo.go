//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts opens a critical section against the zero-cross
// interrupt and returns the previous state.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts closes the critical section.
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
