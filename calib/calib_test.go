package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotstation/store"
)

func newTestMap(t *testing.T) (*Map, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemNVM(8 * store.RecordSize))
	m := New(st)
	require.NoError(t, m.Init(false))
	return m, st
}

func TestInitEmptyStoreInstallsDefaults(t *testing.T) {
	m, _ := newTestMap(t)

	assert.Equal(t, defaultRefs, m.Calibration())
	assert.EqualValues(t, 128, m.PresetFan())
	assert.EqualValues(t, 0, m.AutoOff())
	assert.Greater(t, m.PresetTemp(), uint16(0))
}

func TestInitSaveDefaultsPersists(t *testing.T) {
	nvm := store.NewMemNVM(8 * store.RecordSize)

	m := New(store.New(nvm))
	require.NoError(t, m.Init(true))

	// A second map over the same region must find the persisted record.
	m2 := New(store.New(nvm))
	require.NoError(t, m2.Init(false))
	assert.Equal(t, m.Calibration(), m2.Calibration())
	assert.Equal(t, m.PresetTemp(), m2.PresetTemp())
}

func TestInitRejectsNonIncreasingCalibration(t *testing.T) {
	nvm := store.NewMemNVM(8 * store.RecordSize)
	st := store.New(nvm)
	require.NoError(t, st.Init())

	// Persist a record whose references are out of order.
	rec := store.Record{
		Calibration: packRefs([3]uint16{600, 400, 900}),
		PresetTemp:  500,
	}
	require.NoError(t, st.Save(&rec))

	m := New(store.New(nvm))
	require.NoError(t, m.Init(false))
	assert.Equal(t, defaultRefs, m.Calibration(), "unordered references must be replaced wholesale")
}

func TestCelsiusFromRawSegments(t *testing.T) {
	m, _ := newTestMap(t)

	assert.EqualValues(t, AmbientCelsius, m.CelsiusFromRaw(0))
	assert.EqualValues(t, AmbientCelsius, m.CelsiusFromRaw(AmbientRaw-1))

	// Reference points map onto their reference temperatures.
	refs := m.Calibration()
	for i, raw := range refs {
		got := m.CelsiusFromRaw(raw)
		assert.InDelta(t, ReferenceCelsius()[i], got, 1, "reference %d", i)
	}

	// Monotonic over the whole sensor range.
	prev := m.CelsiusFromRaw(0)
	for raw := uint16(1); raw <= RawMax; raw++ {
		cur := m.CelsiusFromRaw(raw)
		assert.GreaterOrEqual(t, cur, prev, "raw=%d", raw)
		prev = cur
	}
}

func TestRoundTripWithinOneDegree(t *testing.T) {
	// Any calibration with at least one raw unit per degree of segment
	// span can recover the temperature within one degree.
	calibrations := [][3]uint16{
		defaultRefs,
		{150, 500, 1000},
		{100, 400, 700},
		{120, 250, 1023},
	}

	for _, refs := range calibrations {
		m, _ := newTestMap(t)
		m.ApplyCalibration(refs)

		lo := ReferenceCelsius()[0]
		hi := ReferenceCelsius()[2]
		for c := lo; c <= hi; c++ {
			raw := m.RawFromCelsius(c)
			back := m.CelsiusFromRaw(raw)
			assert.InDelta(t, c, back, 1, "refs=%v celsius=%d raw=%d", refs, c, raw)
		}
	}
}

func TestRawFromCelsiusNeverOvershoots(t *testing.T) {
	m, _ := newTestMap(t)

	for c := int32(210); c <= 400; c += 5 {
		raw := m.RawFromCelsius(c)
		assert.LessOrEqual(t, m.CelsiusFromRaw(raw), c, "celsius=%d", c)
	}
}

func TestIsCold(t *testing.T) {
	m, _ := newTestMap(t)

	assert.True(t, m.IsCold(0))
	assert.True(t, m.IsCold(AmbientRaw))

	// Below the low reference but already above the cold threshold.
	warm := uint16(150)
	require.Less(t, warm, m.Calibration()[0])
	require.GreaterOrEqual(t, m.CelsiusFromRaw(warm), int32(ColdCelsius))
	assert.False(t, m.IsCold(warm))

	// At and above the low reference, never cold.
	assert.False(t, m.IsCold(m.Calibration()[0]))
	assert.False(t, m.IsCold(RawMax))
}

func TestApplyCalibrationGuards(t *testing.T) {
	m, _ := newTestMap(t)

	// Low reference under the sensor floor is re-derived as the midpoint
	// of ambient and the mid reference.
	m.ApplyCalibration([3]uint16{10, 500, 900})
	refs := m.Calibration()
	assert.EqualValues(t, (AmbientRaw+500)/2, refs[0])
	assert.EqualValues(t, 500, refs[1])
	assert.EqualValues(t, 900, refs[2])

	// High reference is capped at the sensor range.
	m.ApplyCalibration([3]uint16{200, 500, 1400})
	assert.EqualValues(t, RawMax, m.Calibration()[2])
}

func TestApplyCalibrationDoesNotPersist(t *testing.T) {
	nvm := store.NewMemNVM(8 * store.RecordSize)
	m := New(store.New(nvm))
	require.NoError(t, m.Init(true))

	m.ApplyCalibration([3]uint16{111, 444, 777})

	m2 := New(store.New(nvm))
	require.NoError(t, m2.Init(false))
	assert.Equal(t, defaultRefs, m2.Calibration())
}

func TestSaveCalibrationRoundTrip(t *testing.T) {
	nvm := store.NewMemNVM(8 * store.RecordSize)
	m := New(store.New(nvm))
	require.NoError(t, m.Init(true))

	refs := [3]uint16{111, 444, 777}
	require.NoError(t, m.SaveCalibration(refs))
	assert.Equal(t, refs, m.Calibration(), "all three references must be live in memory after save")

	m2 := New(store.New(nvm))
	require.NoError(t, m2.Init(false))
	assert.Equal(t, refs, m2.Calibration())
}

func TestSavePresets(t *testing.T) {
	nvm := store.NewMemNVM(8 * store.RecordSize)
	m := New(store.New(nvm))
	require.NoError(t, m.Init(true))

	require.NoError(t, m.SavePresets(430, 200, 15))

	m2 := New(store.New(nvm))
	require.NoError(t, m2.Init(false))
	assert.EqualValues(t, 430, m2.PresetTemp())
	assert.EqualValues(t, 200, m2.PresetFan())
	assert.EqualValues(t, 15, m2.AutoOff())
	assert.Equal(t, defaultRefs, m2.Calibration(), "presets must not disturb calibration")
}

func TestPackUnpackRefs(t *testing.T) {
	refs := [3]uint16{1, 512, 1023}
	assert.Equal(t, refs, unpackRefs(packRefs(refs)))

	// Low bits first.
	assert.Equal(t, uint32(280|580<<10|880<<20), packRefs([3]uint16{280, 580, 880}))
}

func TestFahrenheit(t *testing.T) {
	assert.EqualValues(t, 32, Fahrenheit(0))
	assert.EqualValues(t, 212, Fahrenheit(100))
	assert.EqualValues(t, 572, Fahrenheit(300))
}
