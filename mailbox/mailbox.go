// Package mailbox hands the newest published value from a producer to a
// consumer through a single atomic slot. Publishing never blocks; a value
// the consumer did not take in time is displaced and returned to the
// producer.
package mailbox

import "sync/atomic"

// Mailbox is a single-slot lock-free hand-off. The zero value is empty and
// ready to use.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Publish stores v and returns the value it displaced, nil if the slot was
// empty. A displaced value was never seen by the consumer.
func (m *Mailbox[T]) Publish(v *T) *T {
	return m.slot.Swap(v)
}

// Take empties the slot and returns what it held, nil if nothing was
// published since the last Take.
func (m *Mailbox[T]) Take() *T {
	return m.slot.Swap(nil)
}

// Peek returns the slot's value without taking it.
func (m *Mailbox[T]) Peek() *T {
	return m.slot.Load()
}
