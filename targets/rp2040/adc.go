//go:build rp2040 || rp2350

package main

import "machine"

// adcSensor reads the amplified air thermocouple through the on-chip ADC.
type adcSensor struct {
	adc machine.ADC
}

func newADCSensor(pin machine.Pin) (*adcSensor, error) {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return nil, err
	}
	return &adcSensor{adc: adc}, nil
}

// ReadRaw returns a 10-bit reading. TinyGo's Get is left-adjusted 16-bit,
// so the low six bits are dropped.
func (s *adcSensor) ReadRaw() (uint16, error) {
	return s.adc.Get() >> 6, nil
}
