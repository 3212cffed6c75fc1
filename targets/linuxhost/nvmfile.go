//go:build linux

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileNVM backs the configuration region with an ordinary file, padded to
// the region size on first use.
type fileNVM struct {
	f    *os.File
	size int
}

func newFileNVM(path string, size int) (*fileNVM, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	return &fileNVM{f: f, size: size}, nil
}

func (n *fileNVM) Size() int { return n.size }

func (n *fileNVM) ReadAt(addr int, buf []byte) error {
	if addr < 0 || addr+len(buf) > n.size {
		return fmt.Errorf("read outside region: addr %d len %d", addr, len(buf))
	}
	_, err := n.f.ReadAt(buf, int64(addr))
	return err
}

func (n *fileNVM) WriteAt(addr int, buf []byte) error {
	if addr < 0 || addr+len(buf) > n.size {
		return fmt.Errorf("write outside region: addr %d len %d", addr, len(buf))
	}
	if _, err := n.f.WriteAt(buf, int64(addr)); err != nil {
		return err
	}
	return n.f.Sync()
}

func (n *fileNVM) Close() error { return n.f.Close() }
