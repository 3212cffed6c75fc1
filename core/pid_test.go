package core

import "testing"

func TestPIDBootstrapDirectFormula(t *testing.T) {
	p := NewPID()

	// err = 50: power = (Kp + Ki)*50 = 41700, rounded down by 2^11.
	if got := p.ReqPower(300, 250); got != 20 {
		t.Errorf("ReqPower(300, 250) = %d, want 20", got)
	}

	// The error sum keeps accumulating across direct-formula calls:
	// errSum = 90, power = 638*40 + 196*90 = 43160 -> 21.
	if got := p.ReqPower(300, 260); got != 21 {
		t.Errorf("second ReqPower(300, 260) = %d, want 21", got)
	}
}

func TestPIDArmsRecurrenceNearTarget(t *testing.T) {
	p := NewPID()
	p.Reset(250)

	// err = 20 < 30: the accumulators are dropped before the direct
	// formula runs one last time.
	// power = 638*20 + 196*20 = 16680 -> (16680+1024)>>11 = 8.
	if got := p.ReqPower(300, 280); got != 8 {
		t.Errorf("ReqPower(300, 280) = %d, want 8", got)
	}
	if !p.iterate {
		t.Fatalf("regulator must be iterating after the error closed")
	}

	// Sample memory shifted: prev2 = seed, prev1 = 280. Next call runs
	// the recurrence: delta = 638*(280-285) + 196*(300-285) +
	// (250+285-2*280) = -275; power = 16405 -> 8.
	if got := p.ReqPower(300, 285); got != 8 {
		t.Errorf("recurrence ReqPower(300, 285) = %d, want 8", got)
	}
}

func TestPIDRecurrenceSteadyState(t *testing.T) {
	p := NewPID()
	p.Reset(400)
	p.ReqPower(400, 400) // arms and shifts: prev2 = 400, prev1 = 400

	before := p.power
	if got := p.ReqPower(400, 400); got != int32(before+1024)>>pidDenomExp {
		t.Errorf("steady state changed the returned power: %d", got)
	}
	if p.power != before {
		t.Errorf("steady state changed the accumulator: %d -> %d", before, p.power)
	}
}

func TestPIDRecurrenceReactsToDisturbance(t *testing.T) {
	p := NewPID()
	p.Reset(400)
	p.ReqPower(400, 400)
	base := p.power

	// A dip below the setpoint must raise the accumulated power; an
	// overshoot must lower it.
	p.ReqPower(400, 390)
	if p.power <= base {
		t.Errorf("power did not rise on a dip: %d -> %d", base, p.power)
	}

	p2 := NewPID()
	p2.Reset(400)
	p2.ReqPower(400, 400)
	base = p2.power
	p2.ReqPower(400, 412)
	if p2.power >= base {
		t.Errorf("power did not fall on an overshoot: %d -> %d", base, p2.power)
	}
}

func TestPIDResetSeedsSampleMemory(t *testing.T) {
	p := NewPID()
	p.ReqPower(300, 250)
	p.ReqPower(300, 280)

	p.Reset(275)
	if p.prev1 != 275 || p.prev2 != 0 {
		t.Errorf("Reset(275): prev1=%d prev2=%d, want 275, 0", p.prev1, p.prev2)
	}
	if p.power != 0 || p.errSum != 0 || p.iterate {
		t.Errorf("Reset left accumulator state behind")
	}

	p.Reset(0)
	if p.prev1 != 0 {
		t.Errorf("Reset(0) must clear the sample memory, prev1=%d", p.prev1)
	}
}

func TestPIDOvershootStillArms(t *testing.T) {
	p := NewPID()
	p.Reset(0)

	// Negative error (already above target) is inside the band too.
	p.ReqPower(300, 320)
	if !p.iterate {
		t.Errorf("overshoot during bootstrap must arm the recurrence")
	}
}

func TestPIDChangeParam(t *testing.T) {
	p := NewPID()

	if got := p.ChangeParam(ParamKp, -1); got != defaultKp {
		t.Errorf("query Kp = %d, want %d", got, defaultKp)
	}
	if got := p.ChangeParam(ParamKp, 700); got != 700 {
		t.Errorf("set Kp = %d, want 700", got)
	}
	if got := p.ChangeParam(ParamKp, -5); got != 700 {
		t.Errorf("query after set = %d, want 700", got)
	}

	if got := p.ChangeParam(ParamKi, 0); got != 0 {
		t.Errorf("zero is a valid coefficient, got %d", got)
	}
	if got := p.ChangeParam(ParamKd, -1); got != defaultKd {
		t.Errorf("query Kd = %d, want %d", got, defaultKd)
	}
}
