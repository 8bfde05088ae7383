// Package config persists the operator's selection in the last erase block
// of the flash data region.
//
// The record is 8 bytes, little endian:
//
//	[0:4] tone index, uint32
//	[4]   enabled flag, 0x01 or 0x00
//	[5:8] zero padding
//
// Blank flash reads as all ones, which decodes to an index past the end of
// any tone table; such records are replaced by the default on load.
package config

import (
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"github.com/harveysanders/subtone/hal"
	"github.com/harveysanders/subtone/tone"
)

// RecordSize is the encoded size of a Record.
const RecordSize = 8

var errShort = errors.New("config:short record")

// Record is the persisted image of a tone.Selection.
type Record struct {
	Index   uint32
	Enabled bool
}

// Default is what a blank or corrupt store loads as.
func Default() Record {
	return Record{Index: 0, Enabled: true}
}

// FromSelection converts a live selection to its persisted form.
func FromSelection(sel tone.Selection) Record {
	return Record{Index: uint32(sel.Index), Enabled: sel.Enabled}
}

// Selection converts the record back to a live selection.
func (r Record) Selection() tone.Selection {
	return tone.Selection{Index: int(r.Index), Enabled: r.Enabled}
}

// Encode returns the fixed binary layout of r.
func (r Record) Encode() [RecordSize]byte {
	var b [RecordSize]byte
	binary.LittleEndian.PutUint32(b[0:4], r.Index)
	if r.Enabled {
		b[4] = 1
	}
	return b
}

// Decode parses the fixed binary layout. Any non-zero flag byte is enabled.
func Decode(b []byte) (Record, error) {
	if len(b) < RecordSize {
		return Record{}, errShort
	}
	return Record{
		Index:   binary.LittleEndian.Uint32(b[0:4]),
		Enabled: b[4] != 0,
	}, nil
}

// Store reads and writes the record. It owns the flash device exclusively.
type Store struct {
	dev    hal.Flash
	tones  int
	offset int64
	log    *slog.Logger
}

// New returns a store keeping its record at the start of the last erase
// block of dev. Records with an index of tones or more are out of range.
func New(dev hal.Flash, tones int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		dev:    dev,
		tones:  tones,
		offset: dev.Size() - dev.EraseBlockSize(),
		log:    logger,
	}
}

// Offset is the byte offset of the record in the data region.
func (s *Store) Offset() int64 { return s.offset }

// Load reads the record. An out of range index is not an error: the default
// record is returned instead.
func (s *Store) Load() (Record, error) {
	rec, err := s.read()
	if err != nil {
		return Record{}, err
	}
	if int64(rec.Index) >= int64(s.tones) {
		s.log.Info("config:blank or corrupt, using default", slog.Uint64("index", uint64(rec.Index)))
		return Default(), nil
	}
	return rec, nil
}

// Save writes rec unless the stored record already equals it. It reports
// whether the flash was touched.
func (s *Store) Save(rec Record) (bool, error) {
	cur, err := s.read()
	if err != nil {
		return false, err
	}
	if cur == rec {
		s.log.Debug("config:unchanged, skipping write")
		return false, nil
	}
	// Writes can only clear bits, so the block must be erased first.
	block := s.offset / s.dev.EraseBlockSize()
	if err := s.dev.EraseBlocks(block, 1); err != nil {
		return false, errors.New("config:erase:" + err.Error())
	}
	buf := rec.Encode()
	if _, err := s.dev.WriteAt(buf[:], s.offset); err != nil {
		return false, errors.New("config:write:" + err.Error())
	}
	s.log.Info("config:saved", slog.Uint64("index", uint64(rec.Index)), slog.Bool("enabled", rec.Enabled))
	return true, nil
}

func (s *Store) read() (Record, error) {
	var buf [RecordSize]byte
	if _, err := s.dev.ReadAt(buf[:], s.offset); err != nil {
		return Record{}, errors.New("config:read:" + err.Error())
	}
	return Decode(buf[:])
}
