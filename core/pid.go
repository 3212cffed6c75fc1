package core

// Discrete dual-mode PID law. Coefficients are pre-scaled by a shared
// power-of-two denominator so the whole computation stays in int32.
//
// Far from the target the direct PI formula runs, which cannot wind up
// because the regulator switches away from it as soon as the error closes.
// Near the target an incremental recurrence takes over: each call adds a
// correction to the running power total instead of reconstructing the full
// error history, which is numerically stable over long holds.
const (
	pidDenomExp = 11 // power denominator, 2^11

	defaultKp = 638
	defaultKi = 196
	defaultKd = 1

	// iterateBand is the raw-unit error under which the regulator leaves
	// the direct formula and arms the recurrence.
	iterateBand = 30
)

// PIDParam selects one coefficient for ChangeParam.
type PIDParam uint8

const (
	ParamKp PIDParam = iota + 1
	ParamKi
	ParamKd
)

// PID holds the regulator state. Reset it on power-on transitions and when
// resuming after a thermal cutoff.
type PID struct {
	kp, ki, kd int32

	prev1  int32 // most recent sample seen while iterating
	prev2  int32 // the sample before prev1
	errSum int32 // integral term of the direct formula
	power  int32 // accumulated power, scaled by 1<<pidDenomExp

	iterate bool // recurrence armed
}

// NewPID returns a regulator with the default coefficients.
func NewPID() *PID {
	return &PID{kp: defaultKp, ki: defaultKi, kd: defaultKd}
}

// Reset clears the sample memory, the accumulators and the recurrence
// flag. A positive seed pre-loads the most-recent-sample memory so the
// derivative term sees no discontinuity when regulation resumes after a
// thermal cutoff.
func (p *PID) Reset(seed int32) {
	p.prev2 = 0
	p.prev1 = 0
	if seed > 0 {
		p.prev1 = seed
	}
	p.errSum = 0
	p.power = 0
	p.iterate = false
}

// ReqPower computes the power demand for one control cycle. The result is
// the accumulated scaled power shifted down by the denominator exponent
// with a rounding bias.
func (p *PID) ReqPower(setpoint, measured int32) int32 {
	if p.prev2 == 0 {
		// Direct formula until two iterated samples exist. Arm the
		// recurrence once the error has closed, dropping whatever the
		// direct phase accumulated so the recurrence starts clean.
		if setpoint-measured < iterateBand && !p.iterate {
			p.iterate = true
			p.power = 0
			p.errSum = 0
		}
		p.errSum += setpoint - measured
		p.power = p.kp*(setpoint-measured) + p.ki*p.errSum
	} else {
		delta := p.kp*(p.prev1-measured) +
			p.ki*(setpoint-measured) +
			p.kd*(p.prev2+measured-2*p.prev1)
		p.power += delta
	}

	if p.iterate {
		p.prev2 = p.prev1
		p.prev1 = measured
	}

	pwr := p.power + 1<<(pidDenomExp-1)
	return pwr >> pidDenomExp
}

// ChangeParam reads or updates one coefficient. A negative value leaves
// the coefficient untouched and just returns it.
func (p *PID) ChangeParam(which PIDParam, value int32) int32 {
	switch which {
	case ParamKp:
		if value >= 0 {
			p.kp = value
		}
		return p.kp
	case ParamKi:
		if value >= 0 {
			p.ki = value
		}
		return p.ki
	case ParamKd:
		if value >= 0 {
			p.kd = value
		}
		return p.kd
	}
	return 0
}
