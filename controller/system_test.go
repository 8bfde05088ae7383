package controller_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harveysanders/subtone/audio"
	"github.com/harveysanders/subtone/button"
	"github.com/harveysanders/subtone/config"
	"github.com/harveysanders/subtone/controller"
	"github.com/harveysanders/subtone/display"
	"github.com/harveysanders/subtone/encoder"
	"github.com/harveysanders/subtone/hal"
	"github.com/harveysanders/subtone/mailbox"
	"github.com/harveysanders/subtone/pdm"
	"github.com/harveysanders/subtone/tone"
)

// bitClock stands in for the PIO state machine.
type bitClock struct {
	mu      sync.Mutex
	enabled bool
	div     tone.Divider
	pushes  int
}

func (c *bitClock) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()
}

func (c *bitClock) SetClkDiv(whole uint16, frac uint8) {
	c.mu.Lock()
	c.div = tone.Divider(uint32(whole)<<8 | uint32(frac))
	c.mu.Unlock()
}

func (c *bitClock) Push(ctx context.Context, words []uint32) error {
	if err := hal.Sleep(ctx, time.Millisecond); err != nil {
		return err
	}
	c.mu.Lock()
	c.pushes++
	c.mu.Unlock()
	return nil
}

func (c *bitClock) state() (bool, tone.Divider, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled, c.div, c.pushes
}

type nullPanel struct{}

func (nullPanel) DrawGlyph(display.Glyph, int) error { return nil }
func (nullPanel) Flush() error                       { return nil }

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestBootToTone(t *testing.T) {
	table := tone.CTCSS()
	planner := tone.DefaultPlanner()
	tables, err := pdm.NewTables(1024, false)
	if err != nil {
		t.Fatal(err)
	}
	a, b, btnPin := hal.NewSimPin(true), hal.NewSimPin(true), hal.NewSimPin(true)
	store := config.New(hal.NewMemFlash(2*4096, 4096), table.Len(), nil)
	mb := mailbox.New[tone.Selection]()
	out := &bitClock{}

	ctrl := controller.New(
		encoder.New(a, b, encoder.Config{Settle: time.Millisecond, StepTimeout: 30 * time.Millisecond}),
		button.New(btnPin, button.Config{Settle: 2 * time.Millisecond}),
		nullPanel{}, store, mb, controller.Config{Table: table},
	)
	if err := ctrl.Boot(); err != nil {
		t.Fatal(err)
	}
	drv := audio.New(out, mb, audio.Config{Table: table, Planner: planner, Tables: tables})

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error { return drv.Run(ctx) })

	eventually(t, func() bool {
		enabled, div, pushes := out.state()
		return enabled && div == planner.Divider(67.0) && pushes > 0
	})

	// One detent up retunes the output.
	for _, l := range [][2]bool{{false, true}, {false, false}, {true, false}, {true, true}} {
		time.Sleep(4 * time.Millisecond)
		a.Set(l[0])
		b.Set(l[1])
	}
	eventually(t, func() bool {
		_, div, _ := out.state()
		return div == planner.Divider(table.Freq(1))
	})

	cancel()
	if err := g.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}
