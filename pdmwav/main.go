// Command pdmwav renders what the audio worker would play for one tone into
// a 16-bit mono WAV file, so the bitstream and divider can be checked with
// ordinary audio tools.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/harveysanders/subtone/pdm"
	"github.com/harveysanders/subtone/tone"
)

func main() {
	index := pflag.IntP("index", "i", 0, "Tone index in the CTCSS table (0 is 67.0 Hz).")
	seconds := pflag.Float64P("seconds", "s", 2, "Length of the rendering.")
	rate := pflag.IntP("rate", "r", 48000, "Output sample rate.")
	bits := pflag.IntP("bits", "n", pdm.DefaultBits, "PDM table length in bits.")
	wide := pflag.Float32P("wide-above", "w", 0, "Use the wide table above this frequency in Hz. 0 disables.")
	outPath := pflag.StringP("out", "o", "tone.wav", "Output file.")
	verbose := pflag.BoolP("verbose", "v", false, "Log driver activity.")
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *outPath, options{
		Index:     *index,
		Seconds:   *seconds,
		Rate:      *rate,
		Bits:      *bits,
		WideAbove: *wide,
		Logger:    logger,
	}); err != nil {
		logger.Error("pdmwav", slog.Any("reason", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, path string, opts options) error {
	buf, err := render(context.Background(), opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, opts.Rate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return errors.New("pdmwav:write:" + err.Error())
	}
	if err := enc.Close(); err != nil {
		return errors.New("pdmwav:close:" + err.Error())
	}
	logger.Info("wrote",
		slog.String("file", path),
		slog.Float64("freq", float64(tone.CTCSS().Freq(opts.Index))),
		slog.Int("samples", len(buf.Data)),
	)
	return nil
}
