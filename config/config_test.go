package config

import (
	"errors"
	"testing"

	"github.com/harveysanders/subtone/hal"
)

const (
	flashSize  = 64 * 1024
	eraseBlock = 4096
	tones      = 51
)

func newStore() (*Store, *hal.MemFlash) {
	f := hal.NewMemFlash(flashSize, eraseBlock)
	return New(f, tones, nil), f
}

func TestLayout(t *testing.T) {
	b := Record{Index: 0x01020304, Enabled: true}.Encode()
	want := [RecordSize]byte{0x04, 0x03, 0x02, 0x01, 0x01, 0, 0, 0}
	if b != want {
		t.Fatalf("got % x, want % x", b, want)
	}
	if _, err := Decode(b[:4]); err == nil {
		t.Fatal("expected error for short record")
	}
}

func TestOffsetIsLastBlock(t *testing.T) {
	s, _ := newStore()
	if s.Offset() != flashSize-eraseBlock {
		t.Fatalf("got offset %d", s.Offset())
	}
}

func TestBlankLoadsDefault(t *testing.T) {
	s, _ := newStore()
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != Default() || got != (Record{Index: 0, Enabled: true}) {
		t.Fatalf("got %+v", got)
	}
}

func TestOutOfRangeLoadsDefault(t *testing.T) {
	s, f := newStore()
	b := Record{Index: tones, Enabled: false}.Encode()
	f.WriteAt(b[:], s.Offset())
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != Default() {
		t.Fatalf("got %+v, want default", got)
	}
}

func TestRoundTrip(t *testing.T) {
	s, _ := newStore()
	for _, rec := range []Record{
		{Index: 0, Enabled: false},
		{Index: 5, Enabled: true},
		{Index: tones - 1, Enabled: false},
		{Index: 12, Enabled: true},
	} {
		if _, err := s.Save(rec); err != nil {
			t.Fatal(err)
		}
		got, err := s.Load()
		if err != nil {
			t.Fatal(err)
		}
		if got != rec {
			t.Fatalf("saved %+v, loaded %+v", rec, got)
		}
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s, f := newStore()
	rec := Record{Index: 7, Enabled: false}
	wrote, err := s.Save(rec)
	if err != nil || !wrote {
		t.Fatalf("first save: wrote=%v err=%v", wrote, err)
	}
	wrote, err = s.Save(rec)
	if err != nil || wrote {
		t.Fatalf("second save: wrote=%v err=%v", wrote, err)
	}
	if erases, writes := f.Cycles(); erases != 1 || writes != 1 {
		t.Fatalf("got %d erases and %d writes, want one of each", erases, writes)
	}
}

func TestSaveErasesBeforeWrite(t *testing.T) {
	s, f := newStore()
	// Flipping enabled from false back to true needs bits set again, which
	// only an erase can do.
	for _, rec := range []Record{{Index: 3, Enabled: false}, {Index: 3, Enabled: true}} {
		if _, err := s.Save(rec); err != nil {
			t.Fatal(err)
		}
		got, _ := s.Load()
		if got != rec {
			t.Fatalf("got %+v, want %+v", got, rec)
		}
	}
	if erases, _ := f.Cycles(); erases != 2 {
		t.Fatalf("got %d erases", erases)
	}
}

func TestSaveFailure(t *testing.T) {
	s, f := newStore()
	f.Fail = errors.New("stuck")
	if _, err := s.Save(Record{Index: 1, Enabled: true}); err == nil {
		t.Fatal("expected error")
	}
}
