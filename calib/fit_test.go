package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitExactLine(t *testing.T) {
	// Points already on a line: raw = 3*celsius + 10.
	celsius := [3]int32{100, 200, 300}
	raw := [3]uint16{310, 610, 910}

	k, b := Fit(celsius, raw)
	assert.InDelta(t, 3.0, k, 1e-4)
	assert.InDelta(t, 10.0, b, 1e-2)
}

func TestFitAveragesNoise(t *testing.T) {
	// Middle point off the line by +30; ordinary least squares splits the
	// disagreement instead of trusting any single point.
	celsius := [3]int32{200, 300, 400}
	raw := [3]uint16{280, 610, 880}

	k, b := Fit(celsius, raw)
	assert.InDelta(t, 3.0, k, 1e-4, "slope comes from the outer points")
	// Line through the outer points has intercept -320; the stray middle
	// point pulls it up by a third of its residual.
	assert.InDelta(t, -310.0, b, 1e-2)
}

func TestFitDegenerate(t *testing.T) {
	k, b := Fit([3]int32{250, 250, 250}, [3]uint16{400, 500, 600})
	assert.Zero(t, k)
	assert.InDelta(t, 500.0, b, 1e-3)
}

func TestRederiveRefs(t *testing.T) {
	// Operator captured points on raw = 2*celsius + 50 at off-reference
	// temperatures; the derived references land on the same line at the
	// canonical temperatures.
	celsius := [3]int32{180, 320, 420}
	raw := [3]uint16{410, 690, 890}

	refs := RederiveRefs(celsius, raw)
	assert.EqualValues(t, 450, refs[0])
	assert.EqualValues(t, 650, refs[1])
	assert.EqualValues(t, 850, refs[2])
}

func TestRederiveRefsClampsToSensorRange(t *testing.T) {
	// Fitted line 2.5*c + 60 exceeds the sensor range at the high
	// reference temperature.
	celsius := [3]int32{200, 300, 380}
	raw := [3]uint16{560, 810, 1010}

	refs := RederiveRefs(celsius, raw)
	assert.EqualValues(t, RawMax, refs[2])
}
