// Package serial abstracts the host's link to the station so the client
// can run over a real tty or an in-memory pipe in tests.
package serial

import (
	"io"
)

// Port is the station link as seen by the client.
type Port interface {
	io.ReadWriteCloser

	// Flush drains any buffered outbound data.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path, e.g. "/dev/ttyACM0".
	Device string

	// Baud rate. A USB CDC link ignores it.
	Baud int

	// ReadTimeout in milliseconds; 0 blocks.
	ReadTimeout int
}

// DefaultConfig returns the stock configuration for the station link.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
