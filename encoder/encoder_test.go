package encoder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harveysanders/subtone/hal"
)

const phase = 10 * time.Millisecond

var testConfig = Config{Settle: time.Millisecond, StepTimeout: 30 * time.Millisecond}

// drive applies (A, B) levels one phase apart.
func drive(a, b *hal.SimPin, levels ...[2]bool) {
	for _, l := range levels {
		time.Sleep(phase)
		a.Set(l[0])
		b.Set(l[1])
	}
}

var (
	clockwise        = [][2]bool{{false, true}, {false, false}, {true, false}, {true, true}}
	counterClockwise = [][2]bool{{true, false}, {false, false}, {false, true}, {true, true}}
)

func TestDecodeDirections(t *testing.T) {
	tests := []struct {
		name   string
		levels [][2]bool
		want   Direction
	}{
		{"clockwise", clockwise, Up},
		{"counter-clockwise", counterClockwise, Down},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, b := hal.NewSimPin(true), hal.NewSimPin(true)
			enc := New(a, b, testConfig)
			go drive(a, b, tc.levels...)

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			got, err := enc.Next(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestConsecutiveSteps(t *testing.T) {
	a, b := hal.NewSimPin(true), hal.NewSimPin(true)
	enc := New(a, b, testConfig)
	go func() {
		drive(a, b, clockwise...)
		drive(a, b, clockwise...)
		drive(a, b, counterClockwise...)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i, want := range []Direction{Up, Up, Down} {
		got, err := enc.Next(ctx)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("step %d: got %v, want %v", i, got, want)
		}
	}
}

func TestNoiseIsDropped(t *testing.T) {
	a, b := hal.NewSimPin(true), hal.NewSimPin(true)
	enc := New(a, b, testConfig)
	go func() {
		// A glitches low and back without B ever following.
		drive(a, b, [2]bool{false, true}, [2]bool{true, true})
		time.Sleep(6 * phase)
		drive(a, b, counterClockwise...)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := enc.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != Down {
		t.Fatalf("got %v, want the step after the glitch (down)", got)
	}
}

func TestNextCancelled(t *testing.T) {
	a, b := hal.NewSimPin(true), hal.NewSimPin(true)
	enc := New(a, b, testConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := enc.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
}

func TestState(t *testing.T) {
	a, b := hal.NewSimPin(true), hal.NewSimPin(false)
	enc := New(a, b, Config{})
	if la, lb := enc.State(); !la || lb {
		t.Fatalf("got %v %v", la, lb)
	}
}
