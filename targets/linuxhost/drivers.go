//go:build linux

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/warthog618/go-gpiocdev"

	"hotstation/calib"
)

// iioSensor reads the air temperature from a kernel IIO raw voltage file.
type iioSensor struct {
	path string
}

func newIIOSensor(path string) *iioSensor {
	return &iioSensor{path: path}
}

func (s *iioSensor) ReadRaw() (uint16, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("read sensor: %w", err)
	}
	v, err := strconv.Atoi(string(bytes.TrimSpace(data)))
	if err != nil {
		return 0, fmt.Errorf("parse sensor value: %w", err)
	}
	if v < 0 {
		v = 0
	}
	if v > calib.RawMax {
		v = calib.RawMax
	}
	return uint16(v), nil
}

// lineHeater gates the triac opto-driver through a GPIO output line.
type lineHeater struct {
	line *gpiocdev.Line
}

func newLineHeater(chip *gpiocdev.Chip, pin int) (*lineHeater, error) {
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request heater pin %d: %w", pin, err)
	}
	return &lineHeater{line: line}, nil
}

func (h *lineHeater) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	return h.line.SetValue(v)
}

// Close drops the gate and releases the line.
func (h *lineHeater) Close() error {
	_ = h.line.SetValue(0)
	return h.line.Close()
}

// sysfsFan drives the air pump through a kernel PWM channel. The kernel
// interface is plain files, so the driver is too.
type sysfsFan struct {
	dir      string
	periodNS int
}

func newSysfsFan(dir string) (*sysfsFan, error) {
	const periodNS = 40000 // 25 kHz
	f := &sysfsFan{dir: dir, periodNS: periodNS}
	if err := f.write("period", periodNS); err != nil {
		return nil, fmt.Errorf("set pwm period: %w", err)
	}
	if err := f.write("duty_cycle", 0); err != nil {
		return nil, fmt.Errorf("zero pwm duty: %w", err)
	}
	if err := f.write("enable", 1); err != nil {
		return nil, fmt.Errorf("enable pwm: %w", err)
	}
	return f, nil
}

func (f *sysfsFan) SetDuty(duty uint8) error {
	return f.write("duty_cycle", f.periodNS*int(duty)/255)
}

func (f *sysfsFan) write(file string, v int) error {
	return os.WriteFile(filepath.Join(f.dir, file), []byte(strconv.Itoa(v)), 0o644)
}
