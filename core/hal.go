package core

// Drivers the control loop actuates. Targets provide the hardware-backed
// implementations and hand them to NewController; the core never touches
// pins or registers directly.

// SensorDriver reads the raw temperature input. The controller samples it
// exactly once per control cycle.
type SensorDriver interface {
	// ReadRaw performs a one-shot sample, 0..1023.
	ReadRaw() (uint16, error)
}

// HeaterDriver gates the heater element. Set is invoked from interrupt
// context on every phase tick boundary, so implementations must be
// non-blocking and not allocate.
type HeaterDriver interface {
	Set(on bool) error
}

// FanDriver drives the cooling fan. Duty is 0 (stopped) to 255 (full);
// the controller only issues it on transitions, never per tick.
type FanDriver interface {
	SetDuty(duty uint8) error
}
