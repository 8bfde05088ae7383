package main

import (
	"context"
	"errors"
	"log/slog"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/harveysanders/subtone/audio"
	"github.com/harveysanders/subtone/mailbox"
	"github.com/harveysanders/subtone/pdm"
	"github.com/harveysanders/subtone/tone"
)

var errStopped = errors.New("pdmwav:push while output is stopped")

type options struct {
	Index     int
	Seconds   float64
	Rate      int
	Bits      int
	WideAbove float32
	Logger    *slog.Logger
}

// sink is an audio.Output that low-passes the bitstream down to PCM at the
// bit rate the divider would give on the device.
type sink struct {
	bitClock float32
	rate     float64
	want     int
	stop     func()

	enabled bool
	// bitsPerSample follows the divider.
	bitsPerSample float64
	pos           float64
	ones, count   int
	samples       []int
}

func (s *sink) SetEnabled(enabled bool) { s.enabled = enabled }

func (s *sink) SetClkDiv(whole uint16, frac uint8) {
	div := tone.Divider(uint32(whole)<<8 | uint32(frac))
	s.bitsPerSample = float64(s.bitClock) / float64(div.Float()) / s.rate
}

func (s *sink) Push(ctx context.Context, words []uint32) error {
	if !s.enabled || s.bitsPerSample == 0 {
		return errStopped
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b := pdm.Bitstream(words)
	for i := 0; i < b.Len() && len(s.samples) < s.want; i++ {
		if b.Bit(i) {
			s.ones++
		}
		s.count++
		s.pos++
		if s.pos >= s.bitsPerSample {
			s.pos -= s.bitsPerSample
			level := 2*float64(s.ones)/float64(s.count) - 1
			s.samples = append(s.samples, int(math.Round(level*math.MaxInt16)))
			s.ones, s.count = 0, 0
		}
	}
	if len(s.samples) >= s.want {
		s.stop()
	}
	return nil
}

// render runs the audio driver against a sink until it has collected
// opts.Seconds of audio.
func render(ctx context.Context, opts options) (*goaudio.IntBuffer, error) {
	table := tone.CTCSS()
	if !table.Valid(opts.Index) {
		return nil, errors.New("pdmwav:tone index out of range")
	}
	planner := tone.Planner{BitClock: tone.DefaultBitClock, Bits: opts.Bits, WideAbove: opts.WideAbove}
	tables, err := pdm.NewTables(opts.Bits, opts.WideAbove > 0)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	out := &sink{
		bitClock: planner.BitClock,
		rate:     float64(opts.Rate),
		want:     int(opts.Seconds * float64(opts.Rate)),
		stop:     cancel,
	}
	mb := mailbox.New[tone.Selection]()
	mb.Send(tone.Selection{Index: opts.Index, Enabled: true})
	drv := audio.New(out, mb, audio.Config{
		Table:   table,
		Planner: planner,
		Tables:  tables,
		Logger:  opts.Logger,
	})

	err = drv.Run(ctx)
	if len(out.samples) < out.want {
		// Stopped for any reason other than having enough audio.
		if err == nil {
			err = context.Canceled
		}
		return nil, err
	}
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: opts.Rate},
		Data:           out.samples[:out.want],
		SourceBitDepth: 16,
	}, nil
}
