//go:build tinygo

package core

import "time"

var bootTime = time.Now()

// getMillis reads the hardware monotonic clock.
func getMillis() uint32 {
	return uint32(time.Since(bootTime) / time.Millisecond)
}
