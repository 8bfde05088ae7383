// Package audio drives the PDM output from the audio worker.
//
// The driver stays silent until the control worker publishes its first
// selection. From then on it keeps the output fed with whole table periods,
// back to back, and reconfigures the bit clock whenever a new selection
// arrives. A reconfiguration stops the state machine, applies the table and
// divider together and restarts it, so the output may go briefly quiet but
// never plays at a stale rate.
package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/harveysanders/subtone/pdm"
	"github.com/harveysanders/subtone/race"
	"github.com/harveysanders/subtone/tone"
)

var (
	errIndex   = errors.New("audio:tone index out of range")
	errNoTable = errors.New("audio:no table generated for plan")
)

// Output is the PIO bit clock: a shift register with a clock divider and a
// transmit path that whole buffers can be pushed into.
type Output interface {
	SetEnabled(enabled bool)
	SetClkDiv(whole uint16, frac uint8)
	// Push queues words for transmission and returns once all of them are
	// queued or ctx is done.
	Push(ctx context.Context, words []uint32) error
}

// Source delivers selections from the control worker. *mailbox.Mailbox
// implements it.
type Source interface {
	Receive(ctx context.Context) (tone.Selection, error)
	Wait(ctx context.Context) error
	TryReceive() (tone.Selection, bool)
}

// Config wires the driver to its tables.
type Config struct {
	Table   tone.Table
	Planner tone.Planner
	Tables  pdm.Tables
	Logger  *slog.Logger
}

// Driver owns the output for the lifetime of the audio worker.
type Driver struct {
	out     Output
	in      Source
	table   tone.Table
	planner tone.Planner
	tables  pdm.Tables
	log     *slog.Logger

	active tone.Selection
	plan   tone.Plan
	words  pdm.Bitstream
	// periods counts completed table pushes.
	periods atomic.Uint64
}

// New returns a driver playing into out what arrives on in.
func New(out Output, in Source, cfg Config) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{
		out:     out,
		in:      in,
		table:   cfg.Table,
		planner: cfg.Planner,
		tables:  cfg.Tables,
		log:     logger,
	}
}

// Periods returns how many full table periods have been queued.
func (d *Driver) Periods() uint64 { return d.periods.Load() }

// Run blocks for the first selection, then plays until ctx is done or the
// output cannot be configured.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info("audio:waiting for first selection")
	sel, err := d.in.Receive(ctx)
	if err != nil {
		return err
	}
	if err := d.apply(sel); err != nil {
		return err
	}
	for {
		if d.active.Enabled {
			err = d.playOnce(ctx)
		} else {
			// Nothing to feed; just wait for the next selection.
			err = d.in.Wait(ctx)
		}
		if err != nil {
			return err
		}
		// Taken after the race rather than inside it, so a selection that
		// lands as a push completes is never lost.
		if sel, ok := d.in.TryReceive(); ok && sel != d.active {
			if err := d.apply(sel); err != nil {
				return err
			}
		}
	}
}

// playOnce races one full table push against a selection becoming pending.
func (d *Driver) playOnce(ctx context.Context) error {
	words := d.words
	pending := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.in.Wait(ctx)
	}
	push := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.out.Push(ctx, words)
	}
	i, _, err := race.First(ctx, pending, push)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.New("audio:push:" + err.Error())
	}
	if i == 1 {
		d.periods.Add(1)
	}
	return nil
}

// apply reconfigures the output for sel: stop, table and divider, restart.
func (d *Driver) apply(sel tone.Selection) error {
	if !d.table.Valid(sel.Index) {
		return errIndex
	}
	freq := d.table.Freq(sel.Index)
	plan, err := d.planner.Plan(freq)
	if err != nil {
		return err
	}
	// The divider only plays the right pitch with the table it was planned for.
	words, ok := d.tables.Pick(plan.Wide)
	if !ok {
		return errNoTable
	}
	d.out.SetEnabled(false)
	d.out.SetClkDiv(uint16(plan.Divider.Whole()), plan.Divider.Frac())
	d.plan = plan
	d.words = words
	d.active = sel
	d.out.SetEnabled(sel.Enabled)
	d.log.Info("audio:configured",
		slog.Float64("freq", float64(freq)),
		slog.Bool("enabled", sel.Enabled),
		slog.String("div", plan.Divider.String()),
		slog.Bool("wide", plan.Wide),
	)
	return nil
}
