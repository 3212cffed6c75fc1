package store

// Record is the persisted station configuration.
type Record struct {
	Calibration uint32 // three 10-bit raw sensor references, low bits first
	PresetTemp  uint16 // preset temperature in raw sensor units
	FanDuty     uint8  // preset fan duty, 0-255
	AutoOff     uint8  // auto power-off timeout in minutes, 0 disables
}

const (
	payloadSize = 8
	idSize      = 4 // little-endian record identifier

	// RecordSize is the byte slot one record occupies: the next power of
	// two that fits id + payload + checksum.
	RecordSize = 16
)

// marshalPayload serializes the record fields into buf (little endian).
func (r *Record) marshalPayload(buf []byte) {
	putUint32(buf[0:4], r.Calibration)
	buf[4] = uint8(r.PresetTemp)
	buf[5] = uint8(r.PresetTemp >> 8)
	buf[6] = r.FanDuty
	buf[7] = r.AutoOff
}

// unmarshalPayload fills the record fields from buf.
func (r *Record) unmarshalPayload(buf []byte) {
	r.Calibration = getUint32(buf[0:4])
	r.PresetTemp = uint16(buf[4]) | uint16(buf[5])<<8
	r.FanDuty = buf[6]
	r.AutoOff = buf[7]
}

func putUint32(buf []byte, v uint32) {
	buf[0] = uint8(v)
	buf[1] = uint8(v >> 8)
	buf[2] = uint8(v >> 16)
	buf[3] = uint8(v >> 24)
}

func getUint32(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}

// checksum accumulates c = c*4 + b over the id and payload bytes, overflow
// in the byte width included. The final +1 keeps an erased all-zero slot
// from ever matching its stored checksum.
func checksum(buf []byte) uint8 {
	var c uint8
	for _, b := range buf {
		c = c*4 + b
	}
	return c + 1
}
