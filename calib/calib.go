// Package calib converts between raw sensor units and human temperature
// units. The curve is piecewise linear through three calibrated reference
// points plus a fixed ambient anchor; the three raw references live in one
// packed 30-bit field of the persisted configuration record.
package calib

import (
	"hotstation/mathx"
	"hotstation/store"
)

const (
	// AmbientRaw is the sensor floor: readings below it map to ambient.
	AmbientRaw = 30
	// AmbientCelsius is the assumed ambient air temperature.
	AmbientCelsius = 25
	// ColdCelsius is the threshold below which the element counts as cold.
	ColdCelsius = 50
	// RawMax is the highest representable sensor reading (10-bit ADC).
	RawMax = 1023

	refBits = 10
	refMask = 1<<refBits - 1
)

// Reference temperatures the operator calibrates against, low/mid/high.
var refCelsius = [3]int32{200, 300, 400}

// Built-in raw references used until the station is calibrated, or whenever
// the persisted calibration fails validation.
var defaultRefs = [3]uint16{280, 580, 880}

// Map owns the live calibration references and the persisted configuration
// record. Constructed once at startup and alive for the process lifetime.
type Map struct {
	st   *store.Store
	rec  store.Record
	refs [3]uint16 // raw readings at refCelsius, strictly increasing
}

// New returns a map over the given store. Call Init before using it.
func New(st *store.Store) *Map {
	return &Map{st: st}
}

// Init scans the store and rehydrates the calibration references and
// presets. Corrupt or absent storage falls back to built-in defaults;
// saveDefaults additionally persists that fallback so the next boot finds
// a valid record.
func (m *Map) Init(saveDefaults bool) error {
	if err := m.st.Init(); err != nil {
		return err
	}

	rec, ok := m.st.Load()
	if !ok {
		m.installDefaults()
		if saveDefaults {
			return m.st.Save(&m.rec)
		}
		return nil
	}

	m.rec = rec
	refs := unpackRefs(rec.Calibration)
	if !increasing(refs) {
		// Invalid ordering is storage corruption: replace wholesale.
		m.installDefaults()
		return nil
	}
	m.refs = refs
	return nil
}

// defaultPresetCelsius seeds the temperature preset on first boot.
const defaultPresetCelsius = 250

func (m *Map) installDefaults() {
	m.refs = defaultRefs
	m.rec = store.Record{
		Calibration: packRefs(defaultRefs),
		FanDuty:     128,
	}
	m.rec.PresetTemp = m.RawFromCelsius(defaultPresetCelsius)
}

// CelsiusFromRaw maps a raw sensor reading onto the calibrated curve:
// ambient→low, low→mid and mid→high segments, anchored at the ambient
// constant below the sensor floor. The +1 bias before mapping rounds
// toward the target segment end instead of truncating.
func (m *Map) CelsiusFromRaw(raw uint16) int32 {
	r := int32(raw)
	switch {
	case r < AmbientRaw:
		return AmbientCelsius
	case r < int32(m.refs[0]):
		return mathx.Map(r+1, AmbientRaw, int32(m.refs[0]), AmbientCelsius, refCelsius[0])
	case r < int32(m.refs[1]):
		return mathx.Map(r+1, int32(m.refs[0]), int32(m.refs[1]), refCelsius[0], refCelsius[1])
	default:
		return mathx.Map(r+1, int32(m.refs[1]), int32(m.refs[2]), refCelsius[1], refCelsius[2])
	}
}

// FahrenheitFromRaw is CelsiusFromRaw expressed in Fahrenheit.
func (m *Map) FahrenheitFromRaw(raw uint16) int32 {
	return Fahrenheit(m.CelsiusFromRaw(raw))
}

// Fahrenheit converts a Celsius temperature.
func Fahrenheit(c int32) int32 {
	return c*9/5 + 32
}

// RawFromCelsius inverts CelsiusFromRaw through the active segment, then
// nudges the result down (at most 10 steps) until mapping it forward no
// longer overshoots the requested temperature. The correction compensates
// for the asymmetric rounding of the forward direction.
func (m *Map) RawFromCelsius(c int32) uint16 {
	var r int32
	if c >= refCelsius[1] {
		r = mathx.Map(c, refCelsius[1], refCelsius[2], int32(m.refs[1]), int32(m.refs[2]))
	} else {
		r = mathx.Map(c, refCelsius[0], refCelsius[1], int32(m.refs[0]), int32(m.refs[1]))
	}
	r = mathx.Clamp(r, 0, RawMax)

	for i := 0; i < 10; i++ {
		if r <= 0 || m.CelsiusFromRaw(uint16(r)) <= c {
			break
		}
		r--
	}
	return uint16(r)
}

// IsCold reports whether the reading is below the low calibration reference
// and maps below the cold threshold. Both conditions must hold: a reading
// under a miscalibrated low reference can still be hot.
func (m *Map) IsCold(raw uint16) bool {
	return raw < m.refs[0] && m.CelsiusFromRaw(raw) < ColdCelsius
}

// Calibration returns the current raw references so the calibration
// workflow can compute deltas against freshly measured points.
func (m *Map) Calibration() [3]uint16 {
	return m.refs
}

// Store returns the backing configuration store.
func (m *Map) Store() *store.Store {
	return m.st
}

// ReferenceCelsius returns the Celsius targets of the three references.
func ReferenceCelsius() [3]int32 {
	return refCelsius
}

// ApplyCalibration installs three new raw references in memory without
// persisting them. A low reference under the sensor floor is re-derived as
// the midpoint of ambient and the mid reference; the high reference is
// capped at the sensor range.
func (m *Map) ApplyCalibration(refs [3]uint16) {
	if refs[0] < AmbientRaw {
		refs[0] = uint16((AmbientRaw + int32(refs[1])) / 2)
	}
	if refs[2] > RawMax {
		refs[2] = RawMax
	}
	m.refs = refs
}

// SaveCalibration installs the three references and persists them packed
// into the configuration record.
func (m *Map) SaveCalibration(refs [3]uint16) error {
	m.refs[0] = refs[0]
	m.refs[1] = refs[1]
	m.refs[2] = refs[2]
	m.rec.Calibration = packRefs(m.refs)
	return m.st.Save(&m.rec)
}

// PresetTemp returns the persisted preset temperature in raw units.
func (m *Map) PresetTemp() uint16 { return m.rec.PresetTemp }

// PresetFan returns the persisted fan duty preset.
func (m *Map) PresetFan() uint8 { return m.rec.FanDuty }

// AutoOff returns the persisted auto power-off timeout in minutes.
func (m *Map) AutoOff() uint8 { return m.rec.AutoOff }

// SavePresets persists new preset values alongside the current calibration.
func (m *Map) SavePresets(tempRaw uint16, fanDuty, autoOff uint8) error {
	m.rec.PresetTemp = tempRaw
	m.rec.FanDuty = fanDuty
	m.rec.AutoOff = autoOff
	return m.st.Save(&m.rec)
}

// packRefs packs three 10-bit raw references into one word, low bits first.
func packRefs(refs [3]uint16) uint32 {
	return uint32(refs[0]&refMask) |
		uint32(refs[1]&refMask)<<refBits |
		uint32(refs[2]&refMask)<<(2*refBits)
}

// unpackRefs is the inverse of packRefs.
func unpackRefs(packed uint32) [3]uint16 {
	return [3]uint16{
		uint16(packed & refMask),
		uint16(packed >> refBits & refMask),
		uint16(packed >> (2 * refBits) & refMask),
	}
}

func increasing(refs [3]uint16) bool {
	return refs[0] < refs[1] && refs[1] < refs[2]
}
