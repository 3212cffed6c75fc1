package station

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotstation/host/serial"
)

// replyTimeout bounds how long a command waits for its reply line.
const replyTimeout = 2 * time.Second

// Client drives one station over its serial command protocol. Telemetry
// lines arrive interleaved with command replies; the read loop splits the
// two streams so commands stay synchronous.
type Client struct {
	port serial.Port

	tmu       sync.Mutex // guards telemetry
	telemetry func(Telemetry)

	mu      sync.Mutex // serializes commands
	replies chan string
	done    chan struct{}
}

// NewClient starts a client on an open port. onTelemetry, if non-nil, is
// called from the read goroutine for every decoded status line.
func NewClient(port serial.Port, onTelemetry func(Telemetry)) *Client {
	c := &Client{
		port:      port,
		telemetry: onTelemetry,
		replies:   make(chan string, 8),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer close(c.done)
	sc := bufio.NewScanner(c.port)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if IsTelemetry(line) {
			if t, err := ParseTelemetry(line); err == nil {
				c.tmu.Lock()
				fn := c.telemetry
				c.tmu.Unlock()
				if fn != nil {
					fn(t)
				}
			}
			continue
		}
		select {
		case c.replies <- line:
		default:
			// Reply with no command in flight; drop it.
		}
	}
}

// Command sends one line and returns its reply. An "err ..." reply comes
// back as an error.
func (c *Client) Command(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop stale replies from timed-out commands.
	for {
		select {
		case <-c.replies:
			continue
		default:
		}
		break
	}

	if _, err := c.port.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("send %q: %w", cmd, err)
	}

	select {
	case reply := <-c.replies:
		if rest, ok := strings.CutPrefix(reply, "err "); ok {
			return "", fmt.Errorf("station: %s", rest)
		}
		return reply, nil
	case <-c.done:
		return "", fmt.Errorf("serial link closed")
	case <-time.After(replyTimeout):
		return "", fmt.Errorf("no reply to %q", cmd)
	}
}

// Stat requests and decodes one status line.
func (c *Client) Stat() (Telemetry, error) {
	// The reply to "stat" is itself a telemetry line, so it is routed to
	// the telemetry callback. Capture one through a local hook instead.
	got := make(chan Telemetry, 1)
	c.tmu.Lock()
	prev := c.telemetry
	c.telemetry = func(t Telemetry) {
		select {
		case got <- t:
		default:
		}
		if prev != nil {
			prev(t)
		}
	}
	c.tmu.Unlock()
	defer func() {
		c.tmu.Lock()
		c.telemetry = prev
		c.tmu.Unlock()
	}()

	if _, err := c.port.Write([]byte("stat\n")); err != nil {
		return Telemetry{}, fmt.Errorf("send stat: %w", err)
	}
	select {
	case t := <-got:
		return t, nil
	case <-c.done:
		return Telemetry{}, fmt.Errorf("serial link closed")
	case <-time.After(replyTimeout):
		return Telemetry{}, fmt.Errorf("no status line")
	}
}

// SetTemp sets the setpoint in Celsius.
func (c *Client) SetTemp(celsius int) error {
	_, err := c.Command(fmt.Sprintf("temp %d", celsius))
	return err
}

// SetFan sets the fan duty (0..255).
func (c *Client) SetFan(duty int) error {
	_, err := c.Command(fmt.Sprintf("fan %d", duty))
	return err
}

// SwitchPower turns regulation on or off.
func (c *Client) SwitchPower(on bool) error {
	cmd := "off"
	if on {
		cmd = "on"
	}
	_, err := c.Command(cmd)
	return err
}

// FixPower pins the applied power for tuning; zero cancels.
func (c *Client) FixPower(power int) error {
	_, err := c.Command(fmt.Sprintf("fix %d", power))
	return err
}

// PID reads (value < 0) or writes a PID coefficient and returns the
// current value.
func (c *Client) PID(name string, value int) (int, error) {
	cmd := "pid " + name
	if value >= 0 {
		cmd = fmt.Sprintf("pid %s %d", name, value)
	}
	reply, err := c.Command(cmd)
	if err != nil {
		return 0, err
	}
	var got string
	var v int
	if _, err := fmt.Sscanf(reply, "pid %s %d", &got, &v); err != nil || got != name {
		return 0, fmt.Errorf("unexpected reply %q", reply)
	}
	return v, nil
}

// Close shuts the serial link down; the read loop exits with it.
func (c *Client) Close() error {
	return c.port.Close()
}
