// Package button classifies presses of an active-low push button into short
// and long presses.
package button

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/subtone/hal"
	"github.com/harveysanders/subtone/race"
)

const (
	// DefaultSettle is the debounce delay after an edge.
	DefaultSettle = 5 * time.Millisecond
	// LongPress is how long the button must stay down to count as a long press.
	LongPress = 750 * time.Millisecond
)

// Event is the outcome of one press.
type Event int8

const (
	// Toggle is a short press: released before LongPress elapsed.
	Toggle Event = iota + 1
	// Persist is a long press: still held when LongPress elapsed.
	Persist
)

func (e Event) String() string {
	switch e {
	case Toggle:
		return "toggle"
	case Persist:
		return "persist"
	}
	return "none"
}

// Config tunes the classifier. Zero fields take the defaults.
type Config struct {
	Settle    time.Duration
	LongPress time.Duration
	// After starts the long press timer. Defaults to time.After.
	After  func(time.Duration) <-chan time.Time
	Logger *slog.Logger
}

// Button reads one pulled-up line that is pulled low while pressed.
type Button struct {
	pin    hal.Pin
	settle time.Duration
	long   time.Duration
	after  func(time.Duration) <-chan time.Time
	log    *slog.Logger
}

// New returns a classifier for pin.
func New(pin hal.Pin, cfg Config) *Button {
	b := &Button{
		pin:    pin,
		settle: cfg.Settle,
		long:   cfg.LongPress,
		after:  cfg.After,
		log:    cfg.Logger,
	}
	if b.settle == 0 {
		b.settle = DefaultSettle
	}
	if b.long == 0 {
		b.long = LongPress
	}
	if b.after == nil {
		b.after = time.After
	}
	if b.log == nil {
		b.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b
}

// Held reports whether the button is down right now.
func (b *Button) Held() bool { return !b.pin.Get() }

// WaitPress suspends until the next falling edge. A button that is already
// down must be released first.
func (b *Button) WaitPress(ctx context.Context) error {
	if err := b.pin.WaitFor(ctx, true); err != nil {
		return err
	}
	return b.pin.WaitFor(ctx, false)
}

// Classify decides the press that WaitPress just reported. It debounces,
// then races the release against the long press timer. When the timer wins
// but the line already reads released, the press counts as a Toggle, so a
// release landing exactly on the boundary is always a short press.
func (b *Button) Classify(ctx context.Context) (Event, error) {
	if err := hal.Sleep(ctx, b.settle); err != nil {
		return 0, err
	}
	timer := b.after(b.long)
	released := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, b.pin.WaitFor(ctx, true)
	}
	expired := func(ctx context.Context) (struct{}, error) {
		select {
		case <-timer:
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	}
	i, _, err := race.First(ctx, released, expired)
	if err != nil {
		return 0, err
	}
	ev := Toggle
	if i == 1 && b.Held() {
		ev = Persist
	}
	b.log.Debug("button:press", slog.String("event", ev.String()))
	return ev, nil
}

// Finish applies the trailing debounce delay that ends every press.
func (b *Button) Finish(ctx context.Context) error {
	return hal.Sleep(ctx, b.settle)
}
