package station

import (
	"fmt"
	"strconv"
	"strings"
)

// Telemetry is one decoded station status line.
type Telemetry struct {
	Celsius  int  `json:"celsius"`
	Raw      int  `json:"raw"`
	Setpoint int  `json:"setpoint"`
	Power    int  `json:"power"`
	FanDuty  int  `json:"fan_duty"`
	On       bool `json:"on"`
	Chilling bool `json:"chilling"`
	FanOn    bool `json:"fan_on"`
}

// IsTelemetry reports whether a received line is a status line rather
// than a command reply.
func IsTelemetry(line string) bool {
	return strings.HasPrefix(line, "stat ")
}

// ParseTelemetry decodes a status line of the form
// "stat t=245 raw=512 set=250 pow=37 duty=128 on=1 chill=0 fan=1".
func ParseTelemetry(line string) (Telemetry, error) {
	var t Telemetry
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "stat" {
		return t, fmt.Errorf("not a status line: %q", line)
	}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return t, fmt.Errorf("malformed field %q", f)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			return t, fmt.Errorf("field %s: %w", key, err)
		}
		switch key {
		case "t":
			t.Celsius = v
		case "raw":
			t.Raw = v
		case "set":
			t.Setpoint = v
		case "pow":
			t.Power = v
		case "duty":
			t.FanDuty = v
		case "on":
			t.On = v != 0
		case "chill":
			t.Chilling = v != 0
		case "fan":
			t.FanOn = v != 0
		}
	}
	return t, nil
}
