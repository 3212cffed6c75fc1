package core

// Millis returns the monotonic millisecond counter. The phase controller
// timestamps cycle boundaries with it to detect loss of mains
// synchronization; wraparound every ~49 days is harmless because only
// differences are compared.
func Millis() uint32 {
	return getMillis()
}
