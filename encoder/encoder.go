// Package encoder decodes a mechanical quadrature rotary encoder.
//
// Both lines rest high between detents. Turning one detent clockwise pulls A
// low before B and then releases A before B; counter-clockwise mirrors that.
// Every transition is followed by a settle delay to ride out contact bounce.
package encoder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/subtone/hal"
	"github.com/harveysanders/subtone/race"
)

const (
	// DefaultSettle is the debounce delay after each transition.
	DefaultSettle = 5 * time.Millisecond
	// DefaultStepTimeout bounds each phase of a detent after the first edge.
	DefaultStepTimeout = 250 * time.Millisecond
)

var errNoise = errors.New("encoder:sequence not observed")

// Direction of one detent step.
type Direction int8

const (
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

// Config tunes the decoder. Zero fields take the defaults.
type Config struct {
	Settle      time.Duration
	StepTimeout time.Duration
	Logger      *slog.Logger
}

// Encoder decodes steps from lines A and B.
type Encoder struct {
	a, b        hal.Pin
	settle      time.Duration
	stepTimeout time.Duration
	log         *slog.Logger
}

// New returns a decoder over the two lines.
func New(a, b hal.Pin, cfg Config) *Encoder {
	e := &Encoder{
		a:           a,
		b:           b,
		settle:      cfg.Settle,
		stepTimeout: cfg.StepTimeout,
		log:         cfg.Logger,
	}
	if e.settle == 0 {
		e.settle = DefaultSettle
	}
	if e.stepTimeout == 0 {
		e.stepTimeout = DefaultStepTimeout
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// State returns the current line levels.
func (e *Encoder) State() (a, b bool) {
	return e.a.Get(), e.b.Get()
}

// Next suspends until one full detent is decoded. Partial or garbled
// sequences are dropped without an event; only ctx ending is an error.
func (e *Encoder) Next(ctx context.Context) (Direction, error) {
	for {
		dir, err := e.step(ctx)
		if err == nil {
			e.log.Debug("encoder:step", slog.String("dir", dir.String()))
			return dir, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		e.log.Debug("encoder:dropped", slog.String("reason", err.Error()))
	}
}

// step decodes a single detent starting from rest.
func (e *Encoder) step(ctx context.Context) (Direction, error) {
	if err := e.a.WaitFor(ctx, true); err != nil {
		return 0, err
	}
	if err := e.b.WaitFor(ctx, true); err != nil {
		return 0, err
	}
	if err := hal.Sleep(ctx, e.settle); err != nil {
		return 0, err
	}

	first, _, err := race.First(ctx, falling(e.a), falling(e.b))
	if err != nil {
		return 0, err
	}

	// Remaining phases as (A, B) levels after the first falling edge.
	dir := Up
	phases := [3][2]bool{{false, false}, {true, false}, {true, true}}
	if first == 1 {
		dir = Down
		phases = [3][2]bool{{false, false}, {false, true}, {true, true}}
	}
	for _, ph := range phases {
		if err := hal.Sleep(ctx, e.settle); err != nil {
			return 0, err
		}
		if err := e.reach(ctx, ph[0], ph[1]); err != nil {
			return 0, err
		}
	}
	return dir, nil
}

// reach waits for both lines to arrive at the given levels within the step
// timeout.
func (e *Encoder) reach(ctx context.Context, a, b bool) error {
	sctx, cancel := context.WithTimeout(ctx, e.stepTimeout)
	defer cancel()
	if err := e.a.WaitFor(sctx, a); err != nil {
		return e.phaseErr(ctx, err)
	}
	if err := e.b.WaitFor(sctx, b); err != nil {
		return e.phaseErr(ctx, err)
	}
	return nil
}

func (e *Encoder) phaseErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errNoise
}

func falling(p hal.Pin) race.Op[struct{}] {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.WaitFor(ctx, false)
	}
}
