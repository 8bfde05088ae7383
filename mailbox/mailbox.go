// Package mailbox implements the single-slot handoff between the control
// and audio workers.
//
// A Mailbox holds at most one pending value. Send never blocks: a value that
// has not been picked up yet is overwritten by the next one. The receiver
// therefore always sees the most recent value, in publish order, with any
// intermediate values coalesced.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox is safe for one receiver and any number of senders. The zero value
// is not usable; create one with New before the workers start.
type Mailbox[T any] struct {
	mu        sync.Mutex
	value     T
	full      bool
	coalesced uint32
	notify    chan struct{}
}

// New returns an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Send stores v, replacing any value still pending.
func (m *Mailbox[T]) Send(v T) {
	m.mu.Lock()
	if m.full {
		m.coalesced++
	}
	m.value = v
	m.full = true
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// TryReceive takes the pending value, if any.
func (m *Mailbox[T]) TryReceive() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return v, false
	}
	v, m.value = m.value, v
	m.full = false
	return v, true
}

// Wait suspends until a value is pending without taking it. Unlike Receive
// it can be abandoned at any point without losing a value.
func (m *Mailbox[T]) Wait(ctx context.Context) error {
	for {
		m.mu.Lock()
		full := m.full
		m.mu.Unlock()
		if full {
			return nil
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Receive suspends until a value is pending and takes it.
func (m *Mailbox[T]) Receive(ctx context.Context) (T, error) {
	for {
		if err := m.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		if v, ok := m.TryReceive(); ok {
			return v, nil
		}
	}
}

// Coalesced returns how many values were overwritten before being received.
func (m *Mailbox[T]) Coalesced() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coalesced
}
