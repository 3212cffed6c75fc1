// Package store persists the station configuration record in a fixed-size
// non-volatile region. The medium tolerates a bounded number of writes per
// cell, so records are appended round-robin across the whole region instead
// of rewriting one address; the newest valid record wins at load time.
package store

import "errors"

// NVM is a byte-addressable non-volatile region of known size.
// Implementations are provided by the targets (MCU flash, backing file).
type NVM interface {
	// Size returns the usable region length in bytes.
	Size() int

	// ReadAt fills buf from the region starting at addr.
	ReadAt(addr int, buf []byte) error

	// WriteAt writes buf to the region starting at addr.
	WriteAt(addr int, buf []byte) error
}

var errOutOfRange = errors.New("store: address out of range")

// MemNVM is a RAM-backed region used by tests and the host simulator.
type MemNVM struct {
	data []byte
}

// NewMemNVM returns a zero-filled in-memory region of the given size.
func NewMemNVM(size int) *MemNVM {
	return &MemNVM{data: make([]byte, size)}
}

func (m *MemNVM) Size() int { return len(m.data) }

func (m *MemNVM) ReadAt(addr int, buf []byte) error {
	if addr < 0 || addr+len(buf) > len(m.data) {
		return errOutOfRange
	}
	copy(buf, m.data[addr:])
	return nil
}

func (m *MemNVM) WriteAt(addr int, buf []byte) error {
	if addr < 0 || addr+len(buf) > len(m.data) {
		return errOutOfRange
	}
	copy(m.data[addr:], buf)
	return nil
}

// Corrupt flips one bit at the given byte offset. Test helper.
func (m *MemNVM) Corrupt(addr int, bit uint) {
	m.data[addr] ^= 1 << (bit & 7)
}
