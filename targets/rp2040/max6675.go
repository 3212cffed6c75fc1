//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers"
)

// max6675Sensor reads a MAX6675 K-type thermocouple converter over SPI.
// The 16-bit frame carries a 12-bit temperature in 0.25 C steps; whole
// degrees fit the 10-bit raw range exactly, so readings come out in
// Celsius and the identity calibration {200, 300, 400} applies.
type max6675Sensor struct {
	bus drivers.SPI
	cs  machine.Pin
}

var errThermocoupleOpen = errors.New("thermocouple input open")

func newMAX6675(bus drivers.SPI, cs machine.Pin) *max6675Sensor {
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()
	return &max6675Sensor{bus: bus, cs: cs}
}

func (s *max6675Sensor) ReadRaw() (uint16, error) {
	var frame [2]byte
	s.cs.Low()
	err := s.bus.Tx(nil, frame[:])
	s.cs.High()
	if err != nil {
		return 0, err
	}
	bits := uint16(frame[0])<<8 | uint16(frame[1])
	// Frame layout: D15 dummy, D14..D3 temperature, D2 open-input fault.
	if bits&0x0004 != 0 {
		return 0, errThermocoupleOpen
	}
	return (bits >> 5) & 0x3ff, nil
}
