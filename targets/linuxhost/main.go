//go:build linux

// Command linuxhost runs the station control loop on a Linux board: the
// mains zero-cross detector arrives on a GPIO line, the heater gate and
// fan are driven through the GPIO character device and sysfs PWM, and the
// command console runs on stdin/stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"hotstation/calib"
	"hotstation/console"
	"hotstation/core"
	"hotstation/store"
)

func main() {
	chipName := flag.String("chip", "gpiochip0", "GPIO character device")
	pinZC := flag.Int("pin-zc", 17, "BCM pin number of the zero-cross detector")
	pinHeater := flag.Int("pin-heater", 27, "BCM pin number of the heater gate")
	pwmPath := flag.String("fan-pwm", "/sys/class/pwm/pwmchip0/pwm0", "sysfs PWM directory for the fan")
	sensorPath := flag.String("sensor", "/sys/bus/iio/devices/iio:device0/in_voltage0_raw", "IIO raw voltage file of the air sensor")
	configPath := flag.String("config-file", "/var/lib/hotstation/config.bin", "configuration region backing file")
	flag.Parse()

	if err := run(*chipName, *pinZC, *pinHeater, *pwmPath, *sensorPath, *configPath); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(chipName string, pinZC, pinHeater int, pwmPath, sensorPath, configPath string) error {
	nvm, err := newFileNVM(configPath, 4096)
	if err != nil {
		return fmt.Errorf("config region: %w", err)
	}
	defer nvm.Close()

	cal := calib.New(store.New(nvm))
	if err := cal.Init(true); err != nil {
		return fmt.Errorf("config store: %w", err)
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return fmt.Errorf("open gpio chip: %w", err)
	}
	defer chip.Close()

	heater, err := newLineHeater(chip, pinHeater)
	if err != nil {
		return fmt.Errorf("heater line: %w", err)
	}
	defer heater.Close()

	fan, err := newSysfsFan(pwmPath)
	if err != nil {
		return fmt.Errorf("fan pwm: %w", err)
	}

	station := core.NewController(core.Config{
		Sensor: newIIOSensor(sensorPath),
		Heater: heater,
		Fan:    fan,
	})
	station.SetTemp(cal.PresetTemp())
	station.SetFanDuty(cal.PresetFan())
	station.SetAutoOff(cal.AutoOff())

	// Edge events fire the phase tick from the gpiocdev event goroutine.
	// The controller's critical sections compile to no-ops off TinyGo, so
	// everything touching the controller shares this mutex instead.
	var mu sync.Mutex
	zcLine, err := chip.RequestLine(pinZC,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			mu.Lock()
			station.OnZeroCross()
			mu.Unlock()
		}))
	if err != nil {
		return fmt.Errorf("request zero-cross pin %d: %w", pinZC, err)
	}
	defer zcLine.Close()

	con := console.New(station, cal, os.Stdout)
	start := time.Now()
	lines := make(chan string)
	go readLines(lines)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sig:
			mu.Lock()
			station.SwitchPower(false)
			mu.Unlock()
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			mu.Lock()
			con.Handle(line)
			mu.Unlock()
		case <-ticker.C:
			mu.Lock()
			// Off TinyGo the millisecond counter is advanced explicitly.
			core.SetMillis(uint32(time.Since(start).Milliseconds()))
			if station.TakeBoundary() {
				station.KeepTemp()
				con.Stat()
			}
			if station.IsOn() && !station.MainsSynced() {
				station.SwitchPower(false)
				log.Printf("mains sync lost, station off")
			}
			mu.Unlock()
		}
	}
}

func readLines(lines chan<- string) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lines <- sc.Text()
	}
	close(lines)
}
