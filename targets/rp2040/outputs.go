//go:build rp2040 || rp2350

package main

import "machine"

// pinHeater drives the triac opto-driver gate. Set runs from the
// zero-cross interrupt, so it must stay a bare register write.
type pinHeater struct {
	pin machine.Pin
}

func newPinHeater(pin machine.Pin) *pinHeater {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &pinHeater{pin: pin}
}

func (h *pinHeater) Set(on bool) error {
	h.pin.Set(on)
	return nil
}

// pwmPeripheral abstracts TinyGo's unexported *pwmGroup type behind the
// methods the fan needs.
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// fanPWMPeriodNS keeps the fan PWM at 25 kHz, above audible range.
const fanPWMPeriodNS = 40000

// pwmFan runs the air pump on one hardware PWM channel.
type pwmFan struct {
	pwm pwmPeripheral
	ch  uint8
}

func newPWMFan(pin machine.Pin) (*pwmFan, error) {
	// GPIO pin N maps to slice (N >> 1) & 7, channel N & 1.
	pwm := pwmSlice(uint8((uint32(pin) >> 1) & 0x7))
	if err := pwm.Configure(machine.PWMConfig{Period: fanPWMPeriodNS}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &pwmFan{pwm: pwm, ch: ch}, nil
}

func (f *pwmFan) SetDuty(duty uint8) error {
	f.pwm.Set(f.ch, f.pwm.Top()*uint32(duty)/255)
	return nil
}

// pwmSlice returns the machine PWM peripheral for a slice number.
func pwmSlice(n uint8) pwmPeripheral {
	switch n {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
