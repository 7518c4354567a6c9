// Package ring is the library form of the generated ring buffers.
//
// Buffer[T] runs the same algorithm ringgen synthesizes: storage grows by
// append until it reaches capacity and is overwritten in place afterwards,
// a full buffer rejects new items, and Clear resets the counters without
// releasing stored items. A Buffer is not safe for concurrent use.
package ring

import (
	"errors"
)

// ErrZeroCapacity is returned by New for a capacity below 1
var ErrZeroCapacity = errors.New("ring: capacity must be greater than 0")

// Buffer is a fixed-capacity FIFO queue over T
type Buffer[T any] struct {
	data     []T
	capacity int
	head     int
	tail     int
	size     int
}

// New returns an empty buffer that holds at most capacity items
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, ErrZeroCapacity
	}
	return &Buffer[T]{
		data:     make([]T, 0, capacity),
		capacity: capacity,
	}, nil
}

// Enqueue adds item at the tail. A full buffer returns item with ok false.
func (b *Buffer[T]) Enqueue(item T) (rejected T, ok bool) {
	if b.IsFull() {
		return item, false
	}
	if len(b.data) <= b.tail {
		b.data = append(b.data, item)
	} else {
		b.data[b.tail] = item
	}
	b.tail = (b.tail + 1) % b.capacity
	b.size++
	return rejected, true
}

// Dequeue removes and returns the item at the head
func (b *Buffer[T]) Dequeue() (item T, ok bool) {
	if b.IsEmpty() {
		return item, false
	}
	item = b.data[b.head]
	b.head = (b.head + 1) % b.capacity
	b.size--
	return item, true
}

// Peek returns the item at the head without removing it
func (b *Buffer[T]) Peek() (item T, ok bool) {
	if b.IsEmpty() {
		return item, false
	}
	return b.data[b.head], true
}

// IsFull reports whether the buffer holds capacity items.
// The zero Buffer has capacity 0 and is always full.
func (b *Buffer[T]) IsFull() bool {
	return b.size == b.capacity
}

// IsEmpty reports whether the buffer holds no items
func (b *Buffer[T]) IsEmpty() bool {
	return b.size == 0
}

// Len returns the number of items in the buffer
func (b *Buffer[T]) Len() int {
	return b.size
}

// Cap returns the fixed capacity
func (b *Buffer[T]) Cap() int {
	return b.capacity
}

// Clear empties the buffer. Stored items stay referenced until overwritten.
func (b *Buffer[T]) Clear() {
	b.head = 0
	b.tail = 0
	b.size = 0
}

// Cloner is implemented by element types that need a deep copy on dequeue
type Cloner[T any] interface {
	Clone() T
}

// DequeueClone dequeues like Buffer.Dequeue but returns a clone of the item,
// so the caller never shares state with the slot left behind.
func DequeueClone[T Cloner[T]](b *Buffer[T]) (T, bool) {
	item, ok := b.Dequeue()
	if !ok {
		return item, false
	}
	return item.Clone(), true
}
