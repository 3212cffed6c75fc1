package calib

import (
	"github.com/chewxy/math32"

	"hotstation/mathx"
)

// Fit computes the ordinary least-squares line raw = k*celsius + b through
// the three measured points. The calibration workflow fits the points the
// operator captured and re-derives raw references for the canonical
// reference temperatures from the line.
func Fit(celsius [3]int32, raw [3]uint16) (k, b float32) {
	var sumX, sumY float32
	for i := 0; i < 3; i++ {
		sumX += float32(celsius[i])
		sumY += float32(raw[i])
	}
	meanX := sumX / 3
	meanY := sumY / 3

	var num, den float32
	for i := 0; i < 3; i++ {
		dx := float32(celsius[i]) - meanX
		num += dx * (float32(raw[i]) - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	k = num / den
	b = meanY - k*meanX
	return k, b
}

// RederiveRefs maps the canonical reference temperatures through the
// least-squares line of the measured points, yielding the raw references
// to install. Results are rounded to the nearest unit and clamped to the
// sensor range.
func RederiveRefs(celsius [3]int32, raw [3]uint16) [3]uint16 {
	k, b := Fit(celsius, raw)

	var refs [3]uint16
	for i, t := range refCelsius {
		r := math32.Round(k*float32(t) + b)
		refs[i] = uint16(mathx.Clamp(int32(r), 0, RawMax))
	}
	return refs
}
