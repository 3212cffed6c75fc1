//go:build rp2040 || rp2350

package main

import "machine"

// flashNVM exposes the last erase block of the on-board flash as the
// configuration region. Flash writes can only clear bits, so rewriting a
// slot that is not blank forces a read-erase-rewrite of the whole block;
// the wear-leveling log above makes that the rare path.
type flashNVM struct {
	base int64
	size int
}

func newFlashNVM() *flashNVM {
	bs := machine.Flash.EraseBlockSize()
	return &flashNVM{base: machine.Flash.Size() - bs, size: int(bs)}
}

func (f *flashNVM) Size() int { return f.size }

func (f *flashNVM) ReadAt(addr int, buf []byte) error {
	_, err := machine.Flash.ReadAt(buf, f.base+int64(addr))
	return err
}

func (f *flashNVM) WriteAt(addr int, buf []byte) error {
	if f.blank(addr, len(buf)) {
		_, err := machine.Flash.WriteAt(buf, f.base+int64(addr))
		return err
	}
	shadow := make([]byte, f.size)
	if _, err := machine.Flash.ReadAt(shadow, f.base); err != nil {
		return err
	}
	copy(shadow[addr:], buf)
	if err := machine.Flash.EraseBlocks(f.base/machine.Flash.EraseBlockSize(), 1); err != nil {
		return err
	}
	_, err := machine.Flash.WriteAt(shadow, f.base)
	return err
}

// blank reports whether the span still reads as erased flash.
func (f *flashNVM) blank(addr, n int) bool {
	buf := make([]byte, n)
	if _, err := machine.Flash.ReadAt(buf, f.base+int64(addr)); err != nil {
		return false
	}
	for _, b := range buf {
		if b != 0xff {
			return false
		}
	}
	return true
}
