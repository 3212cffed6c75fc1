// Package console implements the line-oriented command surface the station
// exposes over its serial link. Both targets feed received bytes into a
// Console and forward its replies back to the port; the host tooling under
// host/ speaks the same protocol from the other end.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"hotstation/calib"
	"hotstation/core"
)

// Console parses commands and renders telemetry for one station.
type Console struct {
	ctrl *core.Controller
	cal  *calib.Map
	out  io.Writer

	line [64]byte
	n    int
}

// New returns a Console driving ctrl and cal, writing replies to out.
func New(ctrl *core.Controller, cal *calib.Map, out io.Writer) *Console {
	return &Console{ctrl: ctrl, cal: cal, out: out}
}

// Feed consumes one received byte. A full line is handled on '\n';
// oversized lines are dropped.
func (c *Console) Feed(b byte) {
	switch b {
	case '\r':
	case '\n':
		line := string(c.line[:c.n])
		c.n = 0
		c.Handle(line)
	default:
		if c.n < len(c.line) {
			c.line[c.n] = b
			c.n++
		} else {
			c.n = 0
			c.reply("err line too long")
		}
	}
}

// Handle executes one command line and writes the reply.
func (c *Console) Handle(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "on":
		c.ctrl.SwitchPower(true)
		c.reply("ok")
	case "off":
		c.ctrl.SwitchPower(false)
		c.reply("ok")
	case "temp":
		c.setTemp(args)
	case "fan":
		c.setFan(args)
	case "fix":
		c.fixPower(args)
	case "auto":
		c.setAutoOff(args)
	case "pid":
		c.pidParam(args)
	case "cal":
		c.applyCal(args)
	case "calsave":
		if err := c.cal.SaveCalibration(c.cal.Calibration()); err != nil {
			c.reply("err save: " + err.Error())
			return
		}
		c.reply("ok")
	case "save":
		c.savePresets()
	case "stat":
		c.Stat()
	default:
		c.reply("err unknown command " + cmd)
	}
}

func (c *Console) setTemp(args []string) {
	v, ok := c.arg(args, 0)
	if !ok {
		return
	}
	c.ctrl.SetTemp(c.cal.RawFromCelsius(int32(v)))
	c.reply("ok")
}

func (c *Console) setFan(args []string) {
	v, ok := c.arg(args, 0)
	if !ok {
		return
	}
	if v < 0 || v > 255 {
		c.reply("err fan duty out of range")
		return
	}
	c.ctrl.SetFanDuty(uint8(v))
	c.reply("ok")
}

func (c *Console) setAutoOff(args []string) {
	v, ok := c.arg(args, 0)
	if !ok {
		return
	}
	if v < 0 || v > 255 {
		c.reply("err auto-off out of range")
		return
	}
	c.ctrl.SetAutoOff(uint8(v))
	c.reply("ok")
}

func (c *Console) fixPower(args []string) {
	v, ok := c.arg(args, 0)
	if !ok {
		return
	}
	c.ctrl.FixPower(int32(v))
	c.reply("ok")
}

// pidParam reads a coefficient with "pid kp" or writes it with
// "pid kp 640". Either way the current value comes back.
func (c *Console) pidParam(args []string) {
	if len(args) < 1 {
		c.reply("err pid needs a coefficient name")
		return
	}
	var which core.PIDParam
	switch args[0] {
	case "kp":
		which = core.ParamKp
	case "ki":
		which = core.ParamKi
	case "kd":
		which = core.ParamKd
	default:
		c.reply("err unknown coefficient " + args[0])
		return
	}
	value := int64(-1)
	if len(args) > 1 {
		v, ok := c.arg(args, 1)
		if !ok {
			return
		}
		if v < 0 {
			c.reply("err coefficient must be non-negative")
			return
		}
		value = v
	}
	got := c.ctrl.ChangePID(which, int32(value))
	c.reply(fmt.Sprintf("pid %s %d", args[0], got))
}

func (c *Console) applyCal(args []string) {
	if len(args) != 3 {
		c.reply("err cal needs three raw references")
		return
	}
	var refs [3]uint16
	for i := range refs {
		v, ok := c.arg(args, i)
		if !ok {
			return
		}
		if v < 0 || v > calib.RawMax {
			c.reply("err reference out of range")
			return
		}
		refs[i] = uint16(v)
	}
	c.cal.ApplyCalibration(refs)
	c.reply("ok")
}

func (c *Console) savePresets() {
	err := c.cal.SavePresets(c.ctrl.Temp(), c.ctrl.FanDuty(), c.ctrl.AutoOff())
	if err != nil {
		c.reply("err save: " + err.Error())
		return
	}
	c.reply("ok")
}

// Stat writes one telemetry line. The targets also emit it unsolicited
// once per second of control cycles.
func (c *Console) Stat() {
	raw := c.ctrl.LastTemp()
	onoff := 0
	if c.ctrl.IsOn() {
		onoff = 1
	}
	chill := 0
	if c.ctrl.IsChilling() {
		chill = 1
	}
	fan := 0
	if c.ctrl.IsFanOn() {
		fan = 1
	}
	c.reply(fmt.Sprintf("stat t=%d raw=%d set=%d pow=%d duty=%d on=%d chill=%d fan=%d",
		c.cal.CelsiusFromRaw(uint16(raw)), raw,
		c.cal.CelsiusFromRaw(c.ctrl.Temp()), c.ctrl.ActualPower(),
		c.ctrl.FanDuty(), onoff, chill, fan))
}

func (c *Console) arg(args []string, i int) (int64, bool) {
	if i >= len(args) {
		c.reply("err missing argument")
		return 0, false
	}
	v, err := strconv.ParseInt(args[i], 10, 32)
	if err != nil {
		c.reply("err bad number " + args[i])
		return 0, false
	}
	return v, true
}

func (c *Console) reply(s string) {
	io.WriteString(c.out, s+"\n")
}
