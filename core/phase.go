package core

import "hotstation/mathx"

const (
	// DefaultPeriod is the control cycle length in zero-cross ticks.
	// At 50 Hz mains (100 crossings per second) one cycle spans a second.
	DefaultPeriod = 100

	// halfCycleMS is the nominal spacing of zero-cross edges.
	halfCycleMS = 10

	// livenessCycles is how many silent cycle lengths count as loss of
	// mains synchronization.
	livenessCycles = 10

	// overshootBand forces the chilling cutoff when a sample exceeds the
	// setpoint by this many raw units; resumeBand is how far below the
	// setpoint the element must cool before regulation resumes.
	overshootBand = 20
	resumeBand    = 8

	// minFanDuty is the lowest duty the fan runs at while the element is
	// powered; anything slower cannot move enough air to protect it.
	minFanDuty = 60

	// defaultColdRaw is the raw reading under which the element counts
	// as cool enough to stop the fan.
	defaultColdRaw = 100
)

// Controller is the AC-synchronized burst-fire power controller. Power is
// delivered by gating whole mains half-cycles: each control cycle the PID
// law picks how many of the next period ticks the heater stays on.
//
// OnZeroCross is the only method called from interrupt context. The fields
// it shares with the control cycle (tick counter, applied power, heater
// latch, boundary flag, cycle timestamp) are accessed under interrupt
// critical sections from the main-loop side.
type Controller struct {
	sensor SensorDriver
	heater HeaterDriver
	fan    FanDriver
	pid    *PID

	tempHistory  History
	powerHistory History

	period   int32
	setpoint int32 // raw units
	fanDuty  uint8
	coldRaw  uint16

	on       bool // regulation enabled
	fixed    bool // manual override pins actualPower
	chill    bool // thermal cutoff active
	fanRun   bool
	heaterOn bool

	actualPower int32  // ticks the heater stays on this cycle, 0..period
	tick        int32  // phase counter, 0..period-1
	lastCycleMS uint32 // Millis() at the most recent cycle boundary
	pending     bool   // boundary seen, keepTemp not run yet

	autoOffMS uint32 // continuous on-time budget, 0 disables
	onSinceMS uint32 // Millis() when regulation was last switched on
}

// Config carries the controller dependencies and tunables.
type Config struct {
	Sensor SensorDriver
	Heater HeaterDriver
	Fan    FanDriver

	// Period is ticks per control cycle; DefaultPeriod when zero.
	Period int32

	// ColdRaw is the fan-stop threshold; defaultColdRaw when zero.
	ColdRaw uint16
}

// NewController builds the controller. It is constructed once at startup
// and lives for the process lifetime; there is no teardown.
func NewController(cfg Config) *Controller {
	c := &Controller{
		sensor:  cfg.Sensor,
		heater:  cfg.Heater,
		fan:     cfg.Fan,
		pid:     NewPID(),
		period:  cfg.Period,
		coldRaw: cfg.ColdRaw,
	}
	if c.period <= 0 {
		c.period = DefaultPeriod
	}
	if c.coldRaw == 0 {
		c.coldRaw = defaultColdRaw
	}
	return c
}

// OnZeroCross advances the phase tick on a mains zero-crossing edge. Safe
// and intended to be called from interrupt context. At the counter
// wraparound it latches the heater on for the first actualPower ticks of
// the new cycle, timestamps the boundary and raises the pending flag; at
// the tick matching actualPower it drops the heater for the remainder.
// Returns whether this edge was a cycle boundary.
func (c *Controller) OnZeroCross() bool {
	c.tick++
	if c.tick >= c.period {
		c.tick = 0
		c.lastCycleMS = Millis()
		c.pending = true
		if c.actualPower > 0 && !c.heaterOn {
			c.heaterOn = true
			_ = c.heater.Set(true)
		}
		return true
	}
	if c.tick == c.actualPower && c.heaterOn {
		c.heaterOn = false
		_ = c.heater.Set(false)
	}
	return false
}

// TakeBoundary reports and clears the pending cycle boundary flag. The
// main loop polls it and runs KeepTemp once per boundary; a boundary
// raised while KeepTemp is still running is not lost, it is simply taken
// on the next poll.
func (c *Controller) TakeBoundary() bool {
	state := disableInterrupts()
	p := c.pending
	c.pending = false
	restoreInterrupts(state)
	return p
}

// KeepTemp runs one control cycle: sample, record, safety cutoffs, PID,
// fan hysteresis. Call it from the main loop exactly once per cycle
// boundary.
func (c *Controller) KeepTemp() {
	raw, err := c.sensor.ReadRaw()
	if err != nil {
		// A dead sensor cannot bound the element temperature.
		c.setPower(0)
		c.latchHeater(false)
		return
	}
	temp := int32(raw)
	c.tempHistory.Put(temp)

	if c.on && c.autoOffMS != 0 && Millis()-c.onSinceMS >= c.autoOffMS {
		c.SwitchPower(false)
	}

	if c.chill {
		if temp < c.setpoint-resumeBand {
			c.chill = false
			c.pid.Reset(temp)
		} else {
			c.setPower(0)
		}
	} else if c.on && temp >= c.setpoint+overshootBand {
		// Thermal overshoot: drop power now, not at the next boundary.
		c.chill = true
		c.setPower(0)
		c.latchHeater(false)
	}

	switch {
	case c.fixed:
		// Power pinned by FixPower; the PID stays out of the loop.
	case c.on && !c.chill:
		p := c.pid.ReqPower(c.setpoint, temp)
		p = mathx.Clamp(p, 0, c.period)
		c.powerHistory.Put(p)
		c.setPower(p)
	case !c.on:
		c.setPower(0)
	}

	// Fan hysteresis, independent of heater state: residual element heat
	// with no airflow would cook the handle.
	if c.fanRun {
		if c.ActualPower() == 0 && raw < c.coldRaw {
			c.fanRun = false
			_ = c.fan.SetDuty(0)
		}
	} else if raw >= c.coldRaw {
		c.fanRun = true
		_ = c.fan.SetDuty(c.fanDuty)
	}
}

// SwitchPower turns regulation on or off. Turning on raises the fan duty
// to its floor and starts the fan; turning off zeroes the applied power
// and clears the heater output immediately, without waiting for the cycle
// boundary.
func (c *Controller) SwitchPower(on bool) {
	if on {
		if c.fanDuty < minFanDuty {
			c.fanDuty = minFanDuty
		}
		c.fanRun = true
		_ = c.fan.SetDuty(c.fanDuty)
		c.pid.Reset(0)
		c.chill = false
		c.on = true
		c.onSinceMS = Millis()
		return
	}
	c.on = false
	c.chill = false
	c.setPower(0)
	c.latchHeater(false)
}

// FixPower enters or leaves the manual override used by the tuning
// workflow. Zero cancels the override and hands control back to the
// regulation path; any other value is clamped to the cycle length and
// pinned as the applied power, bypassing the PID.
func (c *Controller) FixPower(power int32) {
	if power == 0 {
		c.fixed = false
		c.setPower(0)
		return
	}
	c.fixed = true
	c.setPower(mathx.Clamp(power, 0, c.period))
}

// MainsSynced reports whether zero-cross edges are still arriving: true
// only while the last cycle boundary is less than ten nominal cycle
// lengths old. The caller treats false as a hard fault, forces Off and
// escalates; there is no in-core recovery from a lost AC reference.
func (c *Controller) MainsSynced() bool {
	state := disableInterrupts()
	last := c.lastCycleMS
	restoreInterrupts(state)
	return Millis()-last < uint32(c.period)*halfCycleMS*livenessCycles
}

// SetTemp sets the regulation setpoint in raw units.
func (c *Controller) SetTemp(raw uint16) {
	c.setpoint = int32(raw)
}

// Temp returns the current setpoint in raw units.
func (c *Controller) Temp() uint16 {
	return uint16(c.setpoint)
}

// SetFanDuty updates the fan duty preset and applies it at once when the
// fan is running.
func (c *Controller) SetFanDuty(duty uint8) {
	c.fanDuty = duty
	if c.fanRun {
		_ = c.fan.SetDuty(duty)
	}
}

// FanDuty returns the configured fan duty.
func (c *Controller) FanDuty() uint8 {
	return c.fanDuty
}

// SetAutoOff sets the continuous on-time budget in minutes after which
// regulation switches itself off. Zero disables the timeout.
func (c *Controller) SetAutoOff(minutes uint8) {
	c.autoOffMS = uint32(minutes) * 60000
}

// AutoOff returns the auto power-off timeout in minutes.
func (c *Controller) AutoOff() uint8 {
	return uint8(c.autoOffMS / 60000)
}

// ChangePID forwards a coefficient read or update to the regulator.
func (c *Controller) ChangePID(which PIDParam, value int32) int32 {
	return c.pid.ChangeParam(which, value)
}

// ActualPower returns the power applied this cycle, in ticks.
func (c *Controller) ActualPower() int32 {
	state := disableInterrupts()
	p := c.actualPower
	restoreInterrupts(state)
	return p
}

// IsOn reports whether regulation is enabled.
func (c *Controller) IsOn() bool { return c.on }

// IsChilling reports whether the thermal cutoff is active.
func (c *Controller) IsChilling() bool { return c.chill }

// IsFanOn reports whether the fan is currently running.
func (c *Controller) IsFanOn() bool { return c.fanRun }

// AverageTemp returns the mean of the recent temperature samples.
func (c *Controller) AverageTemp() int32 { return c.tempHistory.Average() }

// LastTemp returns the most recent temperature sample.
func (c *Controller) LastTemp() int32 { return c.tempHistory.Last() }

// AveragePower returns the mean of the recent applied-power values.
func (c *Controller) AveragePower() int32 { return c.powerHistory.Average() }

// TempStable reports whether the temperature dispersion is under limit.
func (c *Controller) TempStable(limit float32) bool {
	return c.tempHistory.Stable(limit)
}

// setPower publishes a new applied power to the interrupt handler. Zero
// also drops the heater latch right here: the wrap branch only ever
// raises the latch, and the in-cycle compare against actualPower cannot
// match zero, so a latch left over from a full-power cycle would
// otherwise hold the element energized forever.
func (c *Controller) setPower(p int32) {
	state := disableInterrupts()
	c.actualPower = p
	drop := p == 0 && c.heaterOn
	if drop {
		c.heaterOn = false
	}
	restoreInterrupts(state)
	if drop {
		_ = c.heater.Set(false)
	}
}

// latchHeater forces the heater latch, bypassing the phase gating.
func (c *Controller) latchHeater(on bool) {
	state := disableInterrupts()
	c.heaterOn = on
	restoreInterrupts(state)
	_ = c.heater.Set(on)
}
