//go:build rp2040 || rp2350

//go:generate pioasm -o go pdm.pio pdm_pio.go

package hal

import (
	"context"
	"machine"
	"runtime"

	pio "github.com/tinygo-org/pio/rp2-pio"
)

// PDMOutput shifts a packed bitstream out of a single pin, one bit per
// state machine cycle. The bit rate is the system clock divided by the
// state machine clock divider.
type PDMOutput struct {
	sm     pio.StateMachine
	offset uint8
}

// NewPDMOutput loads the shift program and configures sm to drive pin. The
// state machine is left disabled.
func NewPDMOutput(sm pio.StateMachine, pin machine.Pin) (*PDMOutput, error) {
	sm.TryClaim() // SM should be claimed beforehand, we just guarantee it's claimed.
	Pio := sm.PIO()

	offset, err := Pio.AddProgram(pdmInstructions, pdmOrigin)
	if err != nil {
		return nil, err
	}
	pin.Configure(machine.PinConfig{Mode: Pio.PinMode()})
	sm.SetPindirsConsecutive(pin, 1, true)

	cfg := pdmProgramDefaultConfig(offset)
	cfg.SetOutPins(pin, 1)
	cfg.SetSetPins(pin, 1)
	// Words are packed MSB first: shift left and pull a new word every 32 bits.
	cfg.SetOutShift(false, true, 32)
	// We only use Tx FIFO, so we set the join to Tx.
	cfg.SetFIFOJoin(pio.FifoJoinTx)
	sm.Init(offset, cfg)
	return &PDMOutput{sm: sm, offset: offset}, nil
}

// SetEnabled starts or stops the state machine. Stopping clears any words
// still queued so a later start never plays stale data at a new rate.
func (p *PDMOutput) SetEnabled(enabled bool) {
	if !enabled {
		p.sm.SetEnabled(false)
		p.sm.ClearFIFOs()
		return
	}
	p.sm.Restart()
	p.sm.ClkDivRestart()
	p.sm.SetEnabled(true)
}

// SetClkDiv sets the bit clock divider from its 16.8 fixed point parts.
func (p *PDMOutput) SetClkDiv(whole uint16, frac uint8) {
	p.sm.SetClkDiv(whole, frac)
}

// Push feeds words into the TX FIFO until all of them are queued or ctx is
// done. Abandoning a push part way is harmless: the next push starts over
// from the beginning of its buffer.
func (p *PDMOutput) Push(ctx context.Context, words []uint32) error {
	for _, w := range words {
		for p.sm.IsTxFIFOFull() {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
		}
		p.sm.TxPut(w)
	}
	return nil
}
