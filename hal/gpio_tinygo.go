//go:build tinygo && baremetal

package hal

import (
	"context"
	"machine"
	"time"
)

// pollInterval is how often a waiting input samples its line. It is well
// below the 5 ms debounce delay used by the decoders.
const pollInterval = 500 * time.Microsecond

// GPIO is a pulled-up machine pin used as an input.
type GPIO struct {
	pin machine.Pin
}

// NewInput configures pin as a pulled-up input.
func NewInput(pin machine.Pin) *GPIO {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &GPIO{pin: pin}
}

func (g *GPIO) Get() bool { return g.pin.Get() }

// WaitFor polls the line, sleeping between samples so the scheduler can run
// other goroutines on this core.
func (g *GPIO) WaitFor(ctx context.Context, level bool) error {
	for g.pin.Get() != level {
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(pollInterval)
	}
	return nil
}
