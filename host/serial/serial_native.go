package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is the Port implementation over a real tty, backed by
// tarm/serial.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens the station's tty with the given configuration.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port, cfg: cfg}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush is a no-op here: tarm/serial writes through on Write, so there
// is no host-side buffer to drain.
func (p *NativePort) Flush() error {
	return nil
}
