// Package pipeline implements the four 1-deep, flushable, ready/valid
// inter-stage queues the core wires between Fetch, Decode, Execute, Memory
// and Writeback (spec section 4.K). It is grounded on the teacher's
// hardware/memory/bus request/response handshake in spirit: a strict
// producer-owns-enqueue, consumer-owns-dequeue discipline with an explicit
// ready/valid contract rather than a channel, so the two-phase eval/commit
// schedule (spec section 5) can sample before any queue mutates.
package pipeline

// Register is a single-slot buffer carrying a value of type T between two
// pipeline stages. Enqueue succeeds only when the slot is empty or is being
// drained this same cycle; dequeue observes Valid() and reads Value() without
// side effects, then calls Commit() once it has consumed the value.
type Register[T any] struct {
	value T
	valid bool
}

// New returns an empty register.
func New[T any]() *Register[T] {
	return &Register[T]{}
}

// Ready reports whether the producer may enqueue this cycle.
func (r *Register[T]) Ready() bool {
	return !r.valid
}

// Enqueue stores v. The caller must have checked Ready() first; Enqueue
// panics if the slot is occupied to surface a producer-discipline bug
// immediately rather than silently drop data.
func (r *Register[T]) Enqueue(v T) {
	if r.valid {
		panic("pipeline: Enqueue called on an occupied register")
	}
	r.value = v
	r.valid = true
}

// Valid reports whether a value is available for the consumer.
func (r *Register[T]) Valid() bool {
	return r.valid
}

// Value returns the buffered value. Only meaningful when Valid() is true.
func (r *Register[T]) Value() T {
	return r.value
}

// Commit drains the slot, called by the consumer once it has accepted the
// value (deq.fire in the spec's ready/valid vocabulary).
func (r *Register[T]) Commit() {
	var zero T
	r.value = zero
	r.valid = false
}

// Flush clears the buffer immediately, dropping deq.valid in the same
// cycle, per spec section 4.K.
func (r *Register[T]) Flush() {
	var zero T
	r.value = zero
	r.valid = false
}
