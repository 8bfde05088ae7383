// Package hal describes the hardware the subtone firmware talks to: digital
// input lines and the flash data region. Host simulations of both live here
// so the rest of the firmware can be exercised without a board.
//
// The TinyGo adapters for the RP2040 (GPIO inputs and the PIO bit clock) are
// only compiled for baremetal targets.
package hal

import (
	"context"
	"io"
)

// Pin is a digital input line. Lines are pulled up, so a released button or
// an encoder at rest reads true.
type Pin interface {
	// Get returns the current line level.
	Get() bool
	// WaitFor suspends until the line reads level. It returns immediately
	// if the line already is at that level.
	WaitFor(ctx context.Context, level bool) error
}

// Flash is the erase/write persistent memory region. Offsets are relative to
// the start of the data region. It has the shape of TinyGo's machine.Flash.
type Flash interface {
	io.ReaderAt
	io.WriterAt
	// Size is the size of the data region in bytes.
	Size() int64
	// EraseBlockSize is the erase granularity in bytes.
	EraseBlockSize() int64
	// EraseBlocks erases length blocks starting at block index start.
	EraseBlocks(start, length int64) error
}
