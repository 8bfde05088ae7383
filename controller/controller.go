// Package controller runs the operator side of the tone generator: it owns
// the encoder, the button, the display and the config store, and publishes
// the current selection to the audio worker.
package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/subtone/button"
	"github.com/harveysanders/subtone/config"
	"github.com/harveysanders/subtone/display"
	"github.com/harveysanders/subtone/encoder"
	"github.com/harveysanders/subtone/hal"
	"github.com/harveysanders/subtone/race"
	"github.com/harveysanders/subtone/tone"
)

// RecoveryMessage is shown before handing over to the USB bootloader.
const RecoveryMessage = "UF2 Boot Mode"

// Publisher hands selections to the audio worker. *mailbox.Mailbox
// implements it.
type Publisher interface {
	Send(tone.Selection)
}

// Store persists the selection. *config.Store implements it.
type Store interface {
	Load() (config.Record, error)
	Save(config.Record) (bool, error)
}

// Config holds the controller's tuning. Zero fields take the defaults.
type Config struct {
	Table tone.Table
	// AckHold is how long the save acknowledgment stays on screen.
	AckHold time.Duration
	Logger  *slog.Logger
}

// Controller is the control worker's state. It is not safe for concurrent
// use; Run owns it once started.
type Controller struct {
	enc     *encoder.Encoder
	btn     *button.Button
	panel   display.Panel
	store   Store
	out     Publisher
	table   tone.Table
	ackHold time.Duration
	log     *slog.Logger

	sel tone.Selection
}

// New returns a controller over its collaborators. Call Boot before Run.
func New(enc *encoder.Encoder, btn *button.Button, panel display.Panel, store Store, out Publisher, cfg Config) *Controller {
	c := &Controller{
		enc:     enc,
		btn:     btn,
		panel:   panel,
		store:   store,
		out:     out,
		table:   cfg.Table,
		ackHold: cfg.AckHold,
		log:     cfg.Logger,
	}
	if c.ackHold == 0 {
		c.ackHold = button.LongPress
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Boot loads the persisted selection.
func (c *Controller) Boot() error {
	rec, err := c.store.Load()
	if err != nil {
		return err
	}
	sel := rec.Selection()
	if !c.table.Valid(sel.Index) {
		// The store was sized for a different table.
		sel = config.Default().Selection()
	}
	c.sel = sel
	c.log.Info("controller:boot", slog.Int("index", sel.Index), slog.Bool("enabled", sel.Enabled))
	return nil
}

// Selection returns the current selection. Only call it when Run is not
// running.
func (c *Controller) Selection() tone.Selection { return c.sel }

// Recovery checks whether the button is held at boot. If it is, the
// recovery message is shown and reboot is called; reboot is not expected to
// return. It reports whether recovery was entered.
func (c *Controller) Recovery(reboot func()) (bool, error) {
	if !c.btn.Held() {
		return false, nil
	}
	c.log.Info("controller:recovery requested")
	if t, ok := c.panel.(display.Texter); ok {
		if err := t.DrawText(RecoveryMessage); err != nil {
			return true, err
		}
	} else {
		for slot := 0; slot < display.Slots; slot++ {
			if err := c.panel.DrawGlyph(display.Dash, slot); err != nil {
				return true, err
			}
		}
	}
	if err := c.panel.Flush(); err != nil {
		return true, err
	}
	reboot()
	return true, nil
}

// Run publishes, repaints and waits for the next input, forever. It returns
// when ctx is done or on a fatal display or flash error.
func (c *Controller) Run(ctx context.Context) error {
	step := func(ctx context.Context) (encoder.Direction, error) {
		return c.enc.Next(ctx)
	}
	press := func(ctx context.Context) (encoder.Direction, error) {
		return 0, c.btn.WaitPress(ctx)
	}
	for {
		c.out.Send(c.sel)
		if err := display.Show(c.panel, c.table.Freq(c.sel.Index), c.sel.Enabled); err != nil {
			return errors.New("controller:display:" + err.Error())
		}

		// Edges that happen while publishing or painting are only seen here.
		i, dir, err := race.First(ctx, step, press)
		if err != nil {
			return err
		}
		if i == 0 {
			c.turn(dir)
			continue
		}
		if err := c.handlePress(ctx); err != nil {
			return err
		}
	}
}

func (c *Controller) turn(dir encoder.Direction) {
	switch dir {
	case encoder.Up:
		c.sel.Index = c.table.Next(c.sel.Index)
	case encoder.Down:
		c.sel.Index = c.table.Prev(c.sel.Index)
	}
	c.log.Debug("controller:tone", slog.Int("index", c.sel.Index))
}

func (c *Controller) handlePress(ctx context.Context) error {
	ev, err := c.btn.Classify(ctx)
	if err != nil {
		return err
	}
	switch ev {
	case button.Toggle:
		c.sel.Enabled = !c.sel.Enabled
		c.log.Debug("controller:toggle", slog.Bool("enabled", c.sel.Enabled))
	case button.Persist:
		if err := c.persist(ctx); err != nil {
			return err
		}
	}
	return c.btn.Finish(ctx)
}

// persist shows the mem mark, keeps the tone running through the flash
// write and holds the mark on screen for a moment.
func (c *Controller) persist(ctx context.Context) error {
	if err := c.panel.DrawGlyph(display.Mem, display.StatusSlot); err != nil {
		return errors.New("controller:display:" + err.Error())
	}
	if err := c.panel.Flush(); err != nil {
		return errors.New("controller:display:" + err.Error())
	}
	c.out.Send(tone.Selection{Index: c.sel.Index, Enabled: true})
	if _, err := c.store.Save(config.FromSelection(c.sel)); err != nil {
		return errors.New("controller:save:" + err.Error())
	}
	return hal.Sleep(ctx, c.ackHold)
}
