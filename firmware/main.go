//go:build tinygo

// Command firmware is the subtone generator for the Raspberry Pi Pico. It
// plays the selected CTCSS tone as a PDM bitstream on GP26 while the
// operator picks tones with a rotary encoder and a push button.
//
// The control and audio workers each get a core with the cores scheduler.
// Build-time options are set with the linker, e.g.
//
//	tinygo flash -target pico -scheduler=cores -ldflags "-X main.displayKind=lcd" ./firmware
package main

import (
	"context"
	"log/slog"
	"machine"
	"strconv"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"golang.org/x/sync/errgroup"
	"tinygo.org/x/drivers/hd44780i2c"
	"tinygo.org/x/drivers/ssd1306"

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

// Set with -ldflags "-X main.name=value".
var (
	// displayKind is "oled" for an SSD1306 or "lcd" for a 16x2 HD44780.
	displayKind = "oled"
	// reserveLastTone keeps the last tone out of the encoder's cycle.
	reserveLastTone = "false"
	// wideThreshold, in Hz, switches to the wide table above it. 0 disables.
	wideThreshold = "0"
)

const (
	pinEncA   = machine.GP2
	pinButton = machine.GP3
	pinEncB   = machine.GP4
	pinPDM    = machine.GP26
	pinSDA    = machine.GP6
	pinSCL    = machine.GP7
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	table := tone.CTCSS()
	table.ReserveLast, _ = strconv.ParseBool(reserveLastTone)
	planner := tone.DefaultPlanner()
	if f, err := strconv.ParseFloat(wideThreshold, 32); err == nil {
		planner.WideAbove = float32(f)
	}

	// Inputs first: the recovery check must not depend on anything else
	// coming up.
	encA, encB := hal.NewInput(pinEncA), hal.NewInput(pinEncB)
	btn := button.New(hal.NewInput(pinButton), button.Config{Logger: logger})

	panel, err := configureDisplay()
	if err != nil {
		printErrForever(logger, "configure display", slog.Any("reason", err))
	}

	store := config.New(machine.Flash, table.Len(), logger)
	mb := mailbox.New[tone.Selection]()
	ctrl := controller.New(
		encoder.New(encA, encB, encoder.Config{Logger: logger}),
		btn, panel, store, mb,
		controller.Config{Table: table, Logger: logger},
	)
	if _, err := ctrl.Recovery(machine.EnterBootloader); err != nil {
		printErrForever(logger, "recovery", slog.Any("reason", err))
	}
	if err := ctrl.Boot(); err != nil {
		printErrForever(logger, "load config", slog.Any("reason", err))
	}

	start := time.Now()
	tables, err := pdm.NewTables(pdm.DefaultBits, planner.WideAbove > 0)
	if err != nil {
		printErrForever(logger, "generate pdm tables", slog.Any("reason", err))
	}
	logger.Info("pdm tables ready", slog.Duration("took", time.Since(start)))

	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		printErrForever(logger, "claim state machine", slog.Any("reason", err))
	}
	out, err := hal.NewPDMOutput(sm, pinPDM)
	if err != nil {
		printErrForever(logger, "configure pdm output", slog.Any("reason", err))
	}
	drv := audio.New(out, mb, audio.Config{
		Table:   table,
		Planner: planner,
		Tables:  tables,
		Logger:  logger,
	})

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error { return drv.Run(ctx) })
	if err := g.Wait(); err != nil {
		printErrForever(logger, "worker stopped", slog.Any("reason", err))
	}
}

// configureDisplay brings up I2C1 and the display chosen at build time.
func configureDisplay() (display.Panel, error) {
	err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       pinSDA,
		SCL:       pinSCL,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return nil, err
	}
	if displayKind == "lcd" {
		lcd := configureLCD(machine.I2C1)
		return display.NewCharPanel(&lcd), nil
	}
	oled := ssd1306.NewI2C(machine.I2C1)
	oled.Configure(ssd1306.Config{
		Width:    128,
		Height:   64,
		Address:  0x3C,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	oled.ClearDisplay()
	return display.NewPixelPanel(oled), nil
}

// configureLCD initializes a 16x2 HD44780 on the usual backpack address.
func configureLCD(i2c *machine.I2C) hd44780i2c.Device {
	lcd := hd44780i2c.New(i2c, 0x27)
	lcd.Configure(hd44780i2c.Config{
		Width:  16,
		Height: 2,
	})
	return lcd
}

// printErrForever prints a string to serial @ 1hz. It blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
