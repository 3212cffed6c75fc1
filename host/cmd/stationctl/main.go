// Command stationctl is the host-side tuning and telemetry console for a
// hot-air station. It speaks the station's line protocol over serial and
// can republish telemetry to MQTT.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"hotstation/host/serial"
	"hotstation/host/station"
)

var (
	configPath = flag.String("config", "stationctl.yaml", "Configuration file path")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	withMQTT   = flag.Bool("mqtt", false, "Enable the MQTT telemetry bridge (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := station.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *withMQTT {
		cfg.MQTT.Enabled = true
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *station.Config) error {
	port, err := serial.Open(&serial.Config{
		Device: cfg.Serial.Device,
		Baud:   cfg.Serial.Baud,
	})
	if err != nil {
		return err
	}

	var bridge *station.Bridge
	if cfg.MQTT.Enabled {
		bridge, err = station.NewBridge(cfg.MQTT)
		if err != nil {
			port.Close()
			return fmt.Errorf("mqtt bridge: %w", err)
		}
		defer bridge.Close()
		fmt.Printf("Publishing telemetry to %s (%s)\n", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}

	// Toggled by the input loop, read from the client's read goroutine.
	var watching atomic.Bool
	client := station.NewClient(port, func(t station.Telemetry) {
		if bridge != nil {
			if err := bridge.Publish(t); err != nil {
				fmt.Fprintf(os.Stderr, "mqtt: %v\n", err)
			}
		}
		if watching.Load() {
			printTelemetry(t)
		}
	})
	defer client.Close()

	fmt.Printf("Connected to %s\n", cfg.Serial.Device)
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "quit", "exit", "q":
			return nil

		case "help", "?":
			printHelp()

		case "on":
			report(client.SwitchPower(true))

		case "off":
			report(client.SwitchPower(false))

		case "temp":
			withIntArg(args, func(v int) { report(client.SetTemp(v)) })

		case "fan":
			withIntArg(args, func(v int) { report(client.SetFan(v)) })

		case "fix":
			withIntArg(args, func(v int) { report(client.FixPower(v)) })

		case "pid":
			doPID(client, args)

		case "stat":
			t, err := client.Stat()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			printTelemetry(t)

		case "watch":
			w := !watching.Load()
			watching.Store(w)
			if w {
				fmt.Println("Watching telemetry (type 'watch' again to stop)")
			} else {
				fmt.Println("Stopped watching")
			}

		case "auto", "cal", "calsave", "save":
			// Calibration commands pass through verbatim.
			reply, err := client.Command(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println(reply)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func doPID(client *station.Client, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: pid <kp|ki|kd> [value]")
		return
	}
	value := -1
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			fmt.Fprintf(os.Stderr, "Error: bad value %q\n", args[1])
			return
		}
		value = v
	}
	v, err := client.PID(args[0], value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Printf("%s = %d\n", args[0], v)
}

func printTelemetry(t station.Telemetry) {
	state := "off"
	switch {
	case t.Chilling:
		state = "chilling"
	case t.On:
		state = "on"
	}
	fmt.Printf("[%s] %d C (raw %d) -> %d C  power %d  fan %d  %s\n",
		time.Now().Format("15:04:05"), t.Celsius, t.Raw, t.Setpoint,
		t.Power, t.FanDuty, state)
}

func withIntArg(args []string, fn func(int)) {
	if len(args) != 1 {
		fmt.Println("Usage: <command> <value>")
		return
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad value %q\n", args[0])
		return
	}
	fn(v)
}

func report(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Println("ok")
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help               - Show this help message")
	fmt.Println("  on / off           - Switch regulation on or off")
	fmt.Println("  temp <celsius>     - Set the temperature setpoint")
	fmt.Println("  fan <duty>         - Set the fan duty (0-255)")
	fmt.Println("  fix <power>        - Pin the applied power for tuning (0 cancels)")
	fmt.Println("  auto <minutes>     - Set the auto power-off timeout (0 disables)")
	fmt.Println("  pid <name> [value] - Read or set a PID coefficient (kp, ki, kd)")
	fmt.Println("  stat               - Read one status line")
	fmt.Println("  watch              - Toggle live telemetry printing")
	fmt.Println("  cal <l> <m> <h>    - Apply raw calibration references")
	fmt.Println("  calsave            - Persist the applied calibration")
	fmt.Println("  save               - Persist current setpoint and fan as presets")
	fmt.Println("  quit/exit/q        - Exit the program")
	fmt.Println()
}
