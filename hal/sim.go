package hal

import (
	"context"
	"errors"
	"sync"
)

var errOutOfRange = errors.New("memflash:access out of range")

// SimPin is an in-memory input line that can be driven from another
// goroutine.
type SimPin struct {
	mu      sync.Mutex
	level   bool
	changed chan struct{}
}

// NewSimPin returns a SimPin resting at level.
func NewSimPin(level bool) *SimPin {
	return &SimPin{level: level, changed: make(chan struct{})}
}

// Set drives the line. Waiters are woken only when the level changes.
func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.level == level {
		return
	}
	p.level = level
	close(p.changed)
	p.changed = make(chan struct{})
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPin) WaitFor(ctx context.Context, level bool) error {
	for {
		p.mu.Lock()
		if p.level == level {
			p.mu.Unlock()
			return nil
		}
		ch := p.changed
		p.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// MemFlash simulates a NOR flash data region. Erasing sets every byte of a
// block to 0xff and writing can only clear bits, so a write that is not
// preceded by an erase ANDs the new data into the old.
type MemFlash struct {
	mu     sync.Mutex
	data   []byte
	block  int64
	erases int
	writes int

	// Fail, when set, is returned by every erase and write.
	Fail error
}

// NewMemFlash returns a blank (fully erased) region of size bytes with the
// given erase block size.
func NewMemFlash(size, block int64) *MemFlash {
	f := &MemFlash{data: make([]byte, size), block: block}
	for i := range f.data {
		f.data[i] = 0xff
	}
	return f
}

func (f *MemFlash) Size() int64           { return int64(len(f.data)) }
func (f *MemFlash) EraseBlockSize() int64 { return f.block }

func (f *MemFlash) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off < 0 || off+int64(len(p)) > int64(len(f.data)) {
		return 0, errOutOfRange
	}
	return copy(p, f.data[off:]), nil
}

func (f *MemFlash) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail != nil {
		return 0, f.Fail
	}
	if off < 0 || off+int64(len(p)) > int64(len(f.data)) {
		return 0, errOutOfRange
	}
	for i, b := range p {
		f.data[off+int64(i)] &= b
	}
	f.writes++
	return len(p), nil
}

func (f *MemFlash) EraseBlocks(start, length int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail != nil {
		return f.Fail
	}
	from, to := start*f.block, (start+length)*f.block
	if start < 0 || length < 0 || to > int64(len(f.data)) {
		return errOutOfRange
	}
	for i := from; i < to; i++ {
		f.data[i] = 0xff
	}
	f.erases++
	return nil
}

// Cycles reports how many erase and write operations reached the region.
func (f *MemFlash) Cycles() (erases, writes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.erases, f.writes
}
