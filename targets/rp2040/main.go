//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"hotstation/calib"
	"hotstation/console"
	"hotstation/core"
	"hotstation/store"
)

// Reference board pin assignment.
const (
	zeroCrossPin = machine.GP2
	heaterPin    = machine.GP3
	fanPin       = machine.GP4
	thermoCSPin  = machine.GP5
	sensorADCPin = machine.ADC0
)

// useThermocouple selects the MAX6675 SPI converter instead of the
// amplified-thermocouple ADC front end.
const useThermocouple = false

// statCycles is how many control cycles pass between unsolicited
// telemetry lines. One cycle is 100 mains half-waves, one second at 50 Hz.
const statCycles = 1

var station *core.Controller

func main() {
	// Clear any watchdog state left over from a previous reset before
	// doing anything that can take a while.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	// Give the USB CDC port time to enumerate so early faults are visible.
	time.Sleep(2 * time.Second)

	st := store.New(newFlashNVM())
	cal := calib.New(st)
	if err := cal.Init(true); err != nil {
		fatal("config store: " + err.Error())
	}

	sensor, err := newSensor()
	if err != nil {
		fatal("sensor: " + err.Error())
	}
	fan, err := newPWMFan(fanPin)
	if err != nil {
		fatal("fan pwm: " + err.Error())
	}
	station = core.NewController(core.Config{
		Sensor: sensor,
		Heater: newPinHeater(heaterPin),
		Fan:    fan,
	})
	station.SetTemp(cal.PresetTemp())
	station.SetFanDuty(cal.PresetFan())
	station.SetAutoOff(cal.AutoOff())

	zc := zeroCrossPin
	zc.Configure(machine.PinConfig{Mode: machine.PinInput})
	if err := zc.SetInterrupt(machine.PinRising, onZeroCross); err != nil {
		fatal("zero-cross interrupt: " + err.Error())
	}

	con := console.New(station, cal, machine.Serial)

	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 2000}); err != nil {
		fatal("watchdog: " + err.Error())
	}
	if err := machine.Watchdog.Start(); err != nil {
		fatal("watchdog: " + err.Error())
	}

	cycles := 0
	for {
		machine.Watchdog.Update()

		if station.TakeBoundary() {
			station.KeepTemp()
			cycles++
			if cycles >= statCycles {
				cycles = 0
				con.Stat()
			}
		}

		// Losing the mains reference means the heater can no longer be
		// gated; drop power and stay off until edges return.
		if station.IsOn() && !station.MainsSynced() {
			station.SwitchPower(false)
			print("err mains sync lost\n")
		}

		for machine.Serial.Buffered() > 0 {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			con.Feed(b)
		}

		time.Sleep(time.Millisecond)
	}
}

// onZeroCross runs in interrupt context on each mains zero crossing.
func onZeroCross(machine.Pin) {
	station.OnZeroCross()
}

func newSensor() (core.SensorDriver, error) {
	if useThermocouple {
		spi := machine.SPI0
		err := spi.Configure(machine.SPIConfig{
			Frequency: 4_000_000,
			Mode:      0,
		})
		if err != nil {
			return nil, err
		}
		return newMAX6675(spi, thermoCSPin), nil
	}
	return newADCSensor(sensorADCPin)
}

// fatal reports an initialization failure over the serial port and parks
// with outputs unconfigured, which leaves heater and fan off.
func fatal(msg string) {
	for {
		print("err " + msg + "\n")
		time.Sleep(time.Second)
	}
}
